package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktray/tasktray/internal/kvstore"
)

// setupTestEnv points the XDG config and data dirs at a temp dir.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	return tmpDir
}

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return outBuf.String(), err
}

// mustExecute is execute with a required nil error.
func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, "", args...)
	require.NoError(t, err, "tasktray %s", strings.Join(args, " "))
	return out
}

func TestRootCommand(t *testing.T) {
	t.Run("has --config flag", func(t *testing.T) {
		cmd := NewRootCmd()
		flag := cmd.PersistentFlags().Lookup("config")
		require.NotNil(t, flag, "expected --config flag to exist")
		assert.Equal(t, "", flag.DefValue)
	})

	t.Run("has --plain flag with default false", func(t *testing.T) {
		cmd := NewRootCmd()
		flag := cmd.Flags().Lookup("plain")
		require.NotNil(t, flag, "expected --plain flag to exist")
		assert.Equal(t, "false", flag.DefValue)
	})

	t.Run("help shows all subcommands", func(t *testing.T) {
		cmd := NewRootCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--help"})
		require.NoError(t, cmd.Execute())

		output := buf.String()
		expectedCommands := []string{
			"add", "list", "done", "rm", "edit", "expand", "clear", "move",
			"sub", "import", "settings", "theme", "ontop",
		}
		for _, subcmd := range expectedCommands {
			assert.True(t, strings.Contains(output, subcmd),
				"expected help to contain '%s'", subcmd)
		}
	})

	t.Run("prints the list when not on a terminal", func(t *testing.T) {
		setupTestEnv(t)

		out := mustExecute(t)
		assert.Contains(t, out, "No tasks")

		mustExecute(t, "add", "Water plants")
		out = mustExecute(t)
		assert.Contains(t, out, "Water plants")
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		setupTestEnv(t)
		_, err := execute(t, "", "stray")
		assert.Error(t, err)
	})
}

func TestRootCommand_ConfigFile(t *testing.T) {
	tmpDir := setupTestEnv(t)
	storeDir := filepath.Join(tmpDir, "custom-store")
	cfgPath := filepath.Join(tmpDir, "tasktray.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("store:\n  backend: sqlite\n  dir: "+storeDir+"\n"), 0644))

	mustExecute(t, "--config", cfgPath, "add", "Stored in sqlite")

	out := mustExecute(t, "--config", cfgPath, "list")
	assert.Contains(t, out, "Stored in sqlite")
	assert.FileExists(t, filepath.Join(storeDir, kvstore.SQLiteName))

	// The default location is a different store.
	out = mustExecute(t, "list")
	assert.Contains(t, out, "No tasks")
}

func TestRootCommand_BadConfig(t *testing.T) {
	tmpDir := setupTestEnv(t)
	cfgPath := filepath.Join(tmpDir, "tasktray.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("store:\n  backend: carrier-pigeon\n"), 0644))

	_, err := execute(t, "", "--config", cfgPath, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open task store")
}
