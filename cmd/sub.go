package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasktray/tasktray/internal/bootstrap"
)

func newSubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sub",
		Short: "Manage the subtasks of a multi-step task",
		Long: `Manage the subtasks of a multi-step task. Subtasks are addressed by
their 1-based position under the parent.`,
	}

	cmd.AddCommand(newSubAddCmd())
	cmd.AddCommand(newSubToggleCmd())
	cmd.AddCommand(newSubRemoveCmd())
	cmd.AddCommand(newSubMoveCmd())

	return cmd
}

func newSubAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <task> <text>",
		Short: "Append a subtask",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				store := rt.App.Tasks()
				mt, err := resolveMulti(store, args[0])
				if err != nil {
					return err
				}
				if _, ok := store.AddSubtask(cmd.Context(), mt.ID, text); !ok {
					return errBlankText
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added subtask %d to %q\n", len(mt.Subtasks)+1, mt.Text)
				return nil
			})
		},
	}
}

func newSubToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done <task> <n>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a subtask's completion",
		Long:    "Toggle a subtask's completion. The parent task's own completion is not changed.",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				store := rt.App.Tasks()
				mt, err := resolveMulti(store, args[0])
				if err != nil {
					return err
				}
				idx, err := parseSubtask(mt, args[1])
				if err != nil {
					return err
				}
				store.ToggleSubtask(cmd.Context(), mt.ID, idx)

				state := "done"
				if mt.Subtasks[idx].Completed {
					state = "open"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Marked %q %s\n", mt.Subtasks[idx].Text, state)
				return nil
			})
		},
	}
}

func newSubRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task> <n>",
		Short: "Delete a subtask",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				store := rt.App.Tasks()
				mt, err := resolveMulti(store, args[0])
				if err != nil {
					return err
				}
				idx, err := parseSubtask(mt, args[1])
				if err != nil {
					return err
				}
				store.DeleteSubtask(cmd.Context(), mt.ID, idx)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", mt.Subtasks[idx].Text)
				return nil
			})
		},
	}
}

func newSubMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <task> <from> <to>",
		Short: "Reorder a subtask within its task",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				store := rt.App.Tasks()
				mt, err := resolveMulti(store, args[0])
				if err != nil {
					return err
				}
				from, err := parseSubtask(mt, args[1])
				if err != nil {
					return err
				}
				to, err := parseSubtask(mt, args[2])
				if err != nil {
					return err
				}
				if !store.ReorderSubtask(cmd.Context(), mt.ID, from, to) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing moved")
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Moved")
				return nil
			})
		},
	}
}
