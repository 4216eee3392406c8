package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trunk-io/analytics-cli/internal/domain/identity"
)

func newGenerateIDCmd() *cobra.Command {
	var (
		fact       identity.Fact
		existingID string
	)

	cmd := &cobra.Command{
		Use:   "generate-id",
		Short: "Generate the stable identity UUID for a test case",
		Long: "Derive the deterministic UUIDv5 identity of a test case from its identifying " +
			"fields. An existing UUIDv5 identity passes through unchanged.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), identity.GenerateID(fact, existingID))
			return nil
		},
	}

	cmd.Flags().StringVar(&fact.OrgSlug, "org", "", "Organization URL slug")
	cmd.Flags().StringVar(&fact.RepoFullName, "repo", "", "Host-qualified repo name, e.g. github.com/org/repo")
	cmd.Flags().StringVar(&fact.File, "file", "", "Test case file path")
	cmd.Flags().StringVar(&fact.Classname, "classname", "", "Test case classname")
	cmd.Flags().StringVar(&fact.ParentPath, "parent-path", "", "Path of the enclosing suites")
	cmd.Flags().StringVar(&fact.Name, "name", "", "Test case name")
	cmd.Flags().StringVar(&fact.Variant, "variant", "", "Report variant label")
	cmd.Flags().StringVar(&existingID, "existing-id", "", "Identity already present on the test case")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
