package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trunk-io/analytics-cli/internal/adapters/outbound/binreport"
	"github.com/trunk-io/analytics-cli/internal/application"
	"github.com/trunk-io/analytics-cli/internal/domain/junit"
)

func newParseCmd() *cobra.Command {
	var binOut string

	cmd := &cobra.Command{
		Use:   "parse <report-file>",
		Short: "Decode a test report file and print the report model",
		Long: "Decode a JUnit XML or binary report file without grading it. With --bin the " +
			"decoded report is re-encoded as a binary payload.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := application.NewValidateService(nil)
			outcome, err := svc.ValidateFile(args[0], nil)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			reports := make([]junit.Report, 0, len(outcome.Reports))
			for i := range outcome.Reports {
				reports = append(reports, outcome.Reports[i].Report)
			}

			if binOut != "" {
				if len(reports) != 1 {
					return fmt.Errorf("--bin needs exactly one report, got %d", len(reports))
				}
				data, err := binreport.Encode(&reports[0], binreport.CurrentVersion)
				if err != nil {
					return err
				}
				if err := os.WriteFile(binOut, data, 0644); err != nil {
					return fmt.Errorf("writing %s: %w", binOut, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", binOut, len(data))
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Reports []junit.Report `json:"reports"`
				Issues  []string       `json:"issues,omitempty"`
			}{reports, outcome.ParseIssues})
		},
	}

	cmd.Flags().StringVar(&binOut, "bin", "", "Write the decoded report as a binary payload to this path")

	return cmd
}
