package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasktray/tasktray/internal/bootstrap"
	"github.com/tasktray/tasktray/internal/taskstore"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import tasks from a YAML file",
		Long: `Import tasks from a YAML file. The file's first task ends up at the top
of the list, above the existing tasks. Invalid entries are skipped and
reported.

Example YAML format:
  tasks:
    - text: Buy milk
    - text: Plan trip
      type: multi
      subtasks:
        - Book flight
        - text: Renew passport
          completed: true
    - text: Call the bank
      completed: true
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("requires a YAML file path as argument")
			}
			yamlPath := args[0]

			if _, err := os.Stat(yamlPath); err != nil {
				return fmt.Errorf("file not found: %s", yamlPath)
			}

			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				result, err := taskstore.ImportFromYAML(cmd.Context(), rt.App.Tasks(), yamlPath)
				if err != nil {
					return fmt.Errorf("import failed: %w", err)
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully imported %d task(s)\n", result.Imported)

				if len(result.Errors) > 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%d error(s) occurred during import:\n", len(result.Errors))
					for _, impErr := range result.Errors {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  - Entry %d: %s\n", impErr.Index+1, impErr.Reason)
					}
				}

				return taskstore.ValidateList(rt.App.Tasks().Tasks())
			})
		},
	}
}
