package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trunk-analytics",
		Short: "Validate and contextualize CI test reports",
		Long: "trunk-analytics decodes JUnit XML and binary test reports, grades them " +
			"against the ingestion rules, and resolves the CI context they were produced in.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newContextCmd())
	cmd.AddCommand(newGenerateIDCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
