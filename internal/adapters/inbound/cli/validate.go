package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trunk-io/analytics-cli/internal/adapters/outbound/tui"
	"github.com/trunk-io/analytics-cli/internal/application"
	"github.com/trunk-io/analytics-cli/internal/domain/validation"
)

func newValidateCmd() *cobra.Command {
	var (
		jsonOut    bool
		runResult  string
		startedAt  string
		finishedAt string
	)

	cmd := &cobra.Command{
		Use:   "validate <report-file> [more files] ...",
		Short: "Validate test report files against the ingestion rules",
		Long: "Decode JUnit XML or binary report files and grade them. An optional run " +
			"window (result plus start and finish times) vouches for old timestamps when the run passed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := application.ParseRunWindow(runResult, startedAt, finishedAt)
			if err != nil {
				return err
			}

			svc := application.NewValidateService(nil)
			worst := validation.Valid

			for _, path := range args {
				outcome, err := svc.ValidateFile(path, window)
				if err != nil {
					return fmt.Errorf("validating %s: %w", path, err)
				}
				if level := outcome.MaxLevel(); level > worst {
					worst = level
				}

				if jsonOut {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					if err := enc.Encode(outcome); err != nil {
						return err
					}
				} else {
					fmt.Fprint(cmd.OutOrStdout(), tui.RenderValidateOutcome(outcome))
				}
			}

			if worst == validation.Invalid {
				return fmt.Errorf("validation failed: at least one report is invalid")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the validation result as JSON")
	cmd.Flags().StringVar(&runResult, "run-result", "", "Outcome of the run that produced the report: passed or failed")
	cmd.Flags().StringVar(&startedAt, "run-started-at", "", "RFC 3339 start of the run window")
	cmd.Flags().StringVar(&finishedAt, "run-finished-at", "", "RFC 3339 end of the run window")

	return cmd
}
