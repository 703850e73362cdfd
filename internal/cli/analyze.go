package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/secrets"
	"alfredoptarigan/resume-analyzer/internal/services"
)

var apiKeyEnv = map[string]string{
	services.ProviderAnthropic: "ANTHROPIC_API_KEY",
	services.ProviderGemini:    "GEMINI_API_KEY",
}

func newAnalyzeCommand(v *viper.Viper, opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a resume against a job description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, v, opts)
		},
	}

	cmd.Flags().StringP("resume", "r", "", "path to the resume PDF")
	cmd.Flags().StringP("job", "j", "", "path to a text file with the job description, or - for stdin")
	cmd.Flags().String("api-key", "", "provider API key")
	cmd.Flags().String("api-key-file", "", "file containing the provider API key")
	cmd.Flags().Bool("json", false, "print the response as JSON")

	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("job")

	return cmd
}

func runAnalyze(cmd *cobra.Command, v *viper.Viper, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log, err := newLogger(v)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	factory := opts.Factory
	if factory == nil {
		factory, err = services.NewGeneratorFactory(services.ProviderConfig{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model(),
			BaseURL:  cfg.LLM.BaseURL(),
		})
		if err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	resumePath, _ := flags.GetString("resume")
	jobPath, _ := flags.GetString("job")
	apiKey, _ := flags.GetString("api-key")
	apiKeyFile, _ := flags.GetString("api-key-file")
	asJSON, _ := flags.GetBool("json")

	credential, err := secrets.Load(secrets.Source{
		Name:  factory.Provider() + " api key",
		Value: apiKey,
		File:  apiKeyFile,
		Env:   apiKeyEnv[factory.Provider()],
	})
	if err != nil {
		return err
	}
	log.Debug("credential loaded", zap.String("key", secrets.Redact(credential)))

	jobDescription, err := readJobDescription(cmd, jobPath)
	if err != nil {
		return err
	}

	loader := services.NewResumeLoader(cfg.Resume.MinFileSize, cfg.Resume.MaxFileSize)
	resume, err := loader.FromPath(resumePath)
	if err != nil {
		return err
	}

	var probe services.ResumeProbe
	if cfg.Resume.ProbeEnabled {
		probe = services.NewResumeProbe()
	}
	fallback, err := services.NeedsFallback(probe, resume.Data)
	if err != nil {
		log.Warn("resume probe failed, using fallback", zap.Error(err))
	}

	stderr := cmd.ErrOrStderr()
	analyzer := services.NewAnalyzer(factory, services.AnalyzerConfig{
		Timeout: cfg.LLM.UpstreamTimeout,
		Logger:  log,
		Progress: func(m services.Milestone) {
			fmt.Fprintf(stderr, "[%3d%%] %s\n", m.Percent(), m)
		},
	})

	outcome, err := analyzer.Analyze(cmd.Context(), models.AnalysisRequest{
		JobDescription: jobDescription,
		Resume:         resume,
		Credential:     credential,
		Fallback:       fallback,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(models.AnalyzeResponse{
			Analysis:         outcome.Analysis,
			ExtractionStatus: outcome.ExtractionStatus,
			Result:           outcome.Result,
		})
	}

	if outcome.ExtractionStatus == models.ExtractionFallback {
		fmt.Fprintln(out, "Note: the resume could not be read, feedback is general guidance for the role.")
		fmt.Fprintln(out)
	}
	return services.RenderReport(out, outcome.Analysis, outcome.Result)
}

func readJobDescription(cmd *cobra.Command, path string) (string, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return "", fmt.Errorf("reading job description: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
