package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const app = "resume-analyzer"

// Options lets callers replace collaborators the commands would otherwise
// build from configuration.
type Options struct {
	Factory services.GeneratorFactory
	Config  *config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand(opts Options) *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           app,
		Short:         "resume-analyzer scores a PDF resume against a job description with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().Bool("log-json", false, "json format for logging")

	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("log-json", rootCmd.PersistentFlags().Lookup("log-json"))

	rootCmd.AddCommand(newAnalyzeCommand(v, opts))
	rootCmd.AddCommand(newParseCommand())

	return rootCmd
}

func loadConfig(opts Options) (*config.Config, error) {
	if opts.Config != nil {
		return opts.Config, nil
	}
	return config.Load()
}

func newLogger(v *viper.Viper) (*zap.Logger, error) {
	if !v.GetBool("debug") {
		// keep stdout clean for the report unless asked for details
		return zap.NewNop(), nil
	}
	return logger.New(v.GetBool("log-json"), true)
}
