package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

func newParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Render a saved model answer without calling the provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return fmt.Errorf("reading analysis: %w", err)
			}

			raw := string(data)
			result := services.Parse(raw)

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(models.ParseResponse{
					Result:     result,
					Rating:     result.Rating(),
					Structured: result.HasStructuredContent(),
				})
			}

			return services.RenderReport(cmd.OutOrStdout(), raw, result)
		},
	}

	cmd.Flags().Bool("json", false, "print the parsed result as JSON")

	return cmd
}
