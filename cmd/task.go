package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasktray/tasktray/cmd/internal"
	"github.com/tasktray/tasktray/internal/bootstrap"
	"github.com/tasktray/tasktray/internal/taskstore"
	"github.com/tasktray/tasktray/internal/tui"
)

// idPrefixLen is the shortest id prefix the list prints.
const idPrefixLen = 8

var errBlankText = errors.New("task text must not be blank")

func newAddCmd() *cobra.Command {
	var (
		multi    bool
		subtasks []string
	)

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task to the top of the list",
		Long: `Add a task to the top of the list. Use --multi for a task with subtasks,
and --sub to add subtasks in the same step (implies --multi).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, strings.Join(args, " "), multi || len(subtasks) > 0, subtasks)
		},
	}

	cmd.Flags().BoolVarP(&multi, "multi", "m", false, "create a multi-step task")
	cmd.Flags().StringArrayVarP(&subtasks, "sub", "s", nil, "subtask text (repeatable)")

	return cmd
}

func runAdd(cmd *cobra.Command, text string, multi bool, subtasks []string) error {
	kind := taskstore.KindSimple
	if multi {
		kind = taskstore.KindMulti
	}

	return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
		store := rt.App.Tasks()
		id, ok := store.AddTask(cmd.Context(), text, kind)
		if !ok {
			return errBlankText
		}
		for _, sub := range subtasks {
			if _, ok := store.AddSubtask(cmd.Context(), id, sub); !ok {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Skipped blank subtask\n")
			}
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q\n", id, strings.TrimSpace(text))
		return nil
	})
}

type listOptions struct {
	all  bool
	json bool
}

func newListCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the task list",
		Long: `Print the task list in display order. Subtasks of expanded tasks are
shown; --all shows every subtask. Tasks can be referenced in other commands
by their position or by a unique id prefix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "show subtasks of collapsed tasks too")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the stored JSON form")

	return cmd
}

func runList(cmd *cobra.Command, opts listOptions) error {
	return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
		store := rt.App.Tasks()
		tasks := store.Tasks()
		out := cmd.OutOrStdout()

		if opts.json {
			data, err := json.MarshalIndent(taskstore.List(tasks), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode tasks: %w", err)
			}
			_, _ = fmt.Fprintln(out, string(data))
			return nil
		}

		if len(tasks) == 0 {
			_, _ = fmt.Fprintln(out, "No tasks. Add one with 'tasktray add <text>'.")
			return nil
		}

		printTasks(out, tasks, opts.all, time.Now())

		c := store.Counts()
		_, _ = fmt.Fprintf(out, "\n%s %s\n", internal.ProgressBar(internal.Percent(c.Completed, c.Total), 20), c)
		return nil
	})
}

func printTasks(out io.Writer, tasks []taskstore.Task, all bool, now time.Time) {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.Base().ID
	}
	prefixes := internal.UniquePrefixes(ids, idPrefixLen)

	for i, t := range tasks {
		b := t.Base()
		line := fmt.Sprintf("%2d. %s %s", i+1, internal.Checkbox(b.Completed), b.Text)

		mt, isMulti := t.(*taskstore.MultiTask)
		if isMulti && len(mt.Subtasks) > 0 {
			line += fmt.Sprintf(" (%d/%d)", subtasksDone(mt), len(mt.Subtasks))
		}
		line += "  " + prefixes[i]
		if b.Completed && b.CompletedAt != nil {
			line += "  done " + tui.FormatRelative(*b.CompletedAt, now)
		}
		_, _ = fmt.Fprintln(out, line)

		if isMulti && (mt.Expanded || all) {
			for j, st := range mt.Subtasks {
				_, _ = fmt.Fprintf(out, "      %d. %s %s\n", j+1, internal.Checkbox(st.Completed), st.Text)
			}
		}
	}
}

func subtasksDone(mt *taskstore.MultiTask) int {
	n := 0
	for _, st := range mt.Subtasks {
		if st.Completed {
			n++
		}
	}
	return n
}

func newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done <task>",
		Aliases: []string{"toggle", "undo"},
		Short:   "Toggle a task's completion",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				store := rt.App.Tasks()
				id, err := resolveTask(store, args[0])
				if err != nil {
					return err
				}
				store.ToggleTask(cmd.Context(), id)

				t, err := store.Get(id)
				if err != nil {
					return err
				}
				state := "open"
				if t.Base().Completed {
					state = "done"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Marked %q %s\n", t.Base().Text, state)
				return nil
			})
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task>",
		Aliases: []string{"delete"},
		Short:   "Delete a task and its subtasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				store := rt.App.Tasks()
				id, err := resolveTask(store, args[0])
				if err != nil {
					return err
				}
				t, err := store.Get(id)
				if err != nil {
					return err
				}
				store.DeleteTask(cmd.Context(), id)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", t.Base().Text)
				return nil
			})
		},
	}
}

func newEditCmd() *cobra.Command {
	var subtask string

	cmd := &cobra.Command{
		Use:   "edit <task> <text>",
		Short: "Change a task's text",
		Long:  "Change a task's text, or a subtask's text with --subtask. Blank text is rejected.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				return runEdit(cmd, rt.App.Tasks(), args[0], subtask, text)
			})
		},
	}

	cmd.Flags().StringVar(&subtask, "subtask", "", "position of the subtask to edit")

	return cmd
}

func runEdit(cmd *cobra.Command, store *taskstore.Store, ref, subRef, text string) error {
	if strings.TrimSpace(text) == "" {
		return errBlankText
	}

	if subRef == "" {
		id, err := resolveTask(store, ref)
		if err != nil {
			return err
		}
		if !store.EditTaskText(cmd.Context(), id, text) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed")
			return nil
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %q\n", strings.TrimSpace(text))
		return nil
	}

	mt, err := resolveMulti(store, ref)
	if err != nil {
		return err
	}
	idx, err := parseSubtask(mt, subRef)
	if err != nil {
		return err
	}
	if !store.EditSubtaskText(cmd.Context(), mt.ID, idx, text) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed")
		return nil
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Renamed subtask %d to %q\n", idx+1, strings.TrimSpace(text))
	return nil
}

func newExpandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <task>",
		Short: "Show or hide a task's subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				store := rt.App.Tasks()
				mt, err := resolveMulti(store, args[0])
				if err != nil {
					return err
				}
				store.ToggleSubtasks(cmd.Context(), mt.ID)

				verb := "Expanded"
				if mt.Expanded {
					verb = "Collapsed"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %q\n", verb, mt.Text)
				return nil
			})
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				store := rt.App.Tasks()
				before := store.Counts().Completed
				if !store.ClearCompleted(cmd.Context()) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing to clear")
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed task(s)\n", before)
				return nil
			})
		},
	}
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <task> <target>",
		Short: "Move a task into another task's position",
		Long: `Move a task into the target's position, as if it were dragged onto it.
Moving down places it after the target, moving up places it before.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				store := rt.App.Tasks()
				from, err := resolveTask(store, args[0])
				if err != nil {
					return err
				}
				to, err := resolveTask(store, args[1])
				if err != nil {
					return err
				}
				if !store.ReorderTask(cmd.Context(), from, to) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing moved")
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Moved")
				return nil
			})
		},
	}
}
