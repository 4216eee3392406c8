package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/trunk-io/analytics-cli/internal/adapters/outbound/config"
	"github.com/trunk-io/analytics-cli/internal/adapters/outbound/gitrepo"
	"github.com/trunk-io/analytics-cli/internal/adapters/outbound/tui"
	"github.com/trunk-io/analytics-cli/internal/application"
	"github.com/trunk-io/analytics-cli/internal/domain/validation"
)

func newContextCmd() *cobra.Command {
	var (
		projectPath string
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Resolve and grade the CI context",
		Long: "Detect the CI platform from the environment, read the local repository, and " +
			"grade the resolved context fields.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			absPath, err := filepath.Abs(projectPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			svc := application.NewContextService(config.New(), gitrepo.New(), nil)
			outcome, err := svc.Resolve(absPath, application.EnvMap(os.Environ()))
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(outcome); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderContext(outcome))
			}

			if outcome.MaxLevel() == validation.Invalid {
				return fmt.Errorf("context is invalid")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Repository root (defaults to current working directory)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the resolved context as JSON")

	return cmd
}
