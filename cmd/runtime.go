package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasktray/tasktray/internal/app"
	"github.com/tasktray/tasktray/internal/autostart"
	"github.com/tasktray/tasktray/internal/bootstrap"
	"github.com/tasktray/tasktray/internal/config"
	"github.com/tasktray/tasktray/internal/taskstore"
)

// openRuntime loads config and starts the app for a one-shot command.
// Callers must Close the runtime to release the store lock.
func openRuntime(cmd *cobra.Command) (*bootstrap.Runtime, error) {
	cfg, err := config.LoadConfigWithFile(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	rt, err := bootstrap.Start(cmd.Context(), cfg, bootstrap.Options{
		Logger:    logger,
		Registrar: newRegistrar(logger),
		Screen:    app.NewTerminalScreen(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open task store: %w", err)
	}
	return rt, nil
}

// withRuntime runs fn against a started runtime and closes it afterwards.
func withRuntime(cmd *cobra.Command, fn func(rt *bootstrap.Runtime) error) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()
	return fn(rt)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// newRegistrar returns the XDG autostart registrar for this binary, or a
// no-op one when the binary path cannot be resolved.
func newRegistrar(logger *slog.Logger) autostart.Registrar {
	exe, err := os.Executable()
	if err == nil {
		var r *autostart.XDGRegistrar
		if r, err = autostart.NewXDGRegistrar("", exe); err == nil {
			return r
		}
	}
	logger.Warn("auto-start unavailable", "error", err)
	return &autostart.Noop{}
}

// resolveTask turns a list position (1-based) or an id prefix into an id.
// A number that is not a valid position is tried as an id prefix.
func resolveTask(store *taskstore.Store, ref string) (string, error) {
	tasks := store.Tasks()
	n, convErr := strconv.Atoi(ref)
	if convErr == nil && n >= 1 && n <= len(tasks) {
		return tasks[n-1].Base().ID, nil
	}

	id, err := store.Resolve(ref)
	if err != nil {
		if convErr == nil {
			return "", fmt.Errorf("no task at position %d (list has %d)", n, len(tasks))
		}
		return "", fmt.Errorf("task %q: %w", ref, err)
	}
	return id, nil
}

// resolveMulti resolves ref and requires a multi-step task.
func resolveMulti(store *taskstore.Store, ref string) (*taskstore.MultiTask, error) {
	id, err := resolveTask(store, ref)
	if err != nil {
		return nil, err
	}
	t, err := store.Get(id)
	if err != nil {
		return nil, err
	}
	mt, ok := t.(*taskstore.MultiTask)
	if !ok {
		return nil, fmt.Errorf("task %q has no subtasks; add it with --multi", ref)
	}
	return mt, nil
}

// parseSubtask converts a 1-based subtask position into an index.
func parseSubtask(mt *taskstore.MultiTask, ref string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(ref))
	if err != nil || n < 1 || n > len(mt.Subtasks) {
		return 0, fmt.Errorf("no subtask %q (task has %d)", ref, len(mt.Subtasks))
	}
	return n - 1, nil
}
