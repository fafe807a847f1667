package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktray/tasktray/internal/autostart"
	"github.com/tasktray/tasktray/internal/settings"
)

func TestSettingsCmd_Show(t *testing.T) {
	setupTestEnv(t)

	for _, args := range [][]string{{"settings"}, {"settings", "show"}} {
		out := mustExecute(t, args...)
		assert.Contains(t, out, "theme: dark")
		assert.Contains(t, out, "opacity: 80")
		assert.Contains(t, out, "alwaysOnTop: true")
		assert.Contains(t, out, "startWithSystem: false")
		assert.Contains(t, out, "width: 320")
	}
}

func TestSettingsCmd_GetSet(t *testing.T) {
	setupTestEnv(t)

	assert.Equal(t, "80\n", mustExecute(t, "settings", "get", "opacity"))

	out := mustExecute(t, "settings", "set", "opacity", "150")
	assert.Equal(t, "opacity = 100\n", out)
	assert.Equal(t, "100\n", mustExecute(t, "settings", "get", "opacity"))

	out = mustExecute(t, "settings", "set", "windowBounds", "400x500+1+2")
	assert.Equal(t, "windowBounds = 400x500+1+2\n", out)
	assert.Equal(t, "400x500+1+2\n", mustExecute(t, "settings", "get", "windowBounds"))

	out = mustExecute(t, "settings", "set", "minimizeToTray", "yes")
	assert.Equal(t, "minimizeToTray = true\n", out)

	t.Run("unknown key", func(t *testing.T) {
		_, err := execute(t, "", "settings", "set", "fontSize", "12")
		assert.ErrorIs(t, err, settings.ErrUnknownKey)

		_, err = execute(t, "", "settings", "get", "fontSize")
		assert.ErrorIs(t, err, settings.ErrUnknownKey)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := execute(t, "", "settings", "set", "opacity", "lots")
		assert.ErrorIs(t, err, settings.ErrInvalidValue)

		_, err = execute(t, "", "settings", "set", "windowBounds", "big")
		assert.ErrorIs(t, err, settings.ErrInvalidValue)
	})
}

func TestSettingsCmd_StartWithSystem(t *testing.T) {
	tmpDir := setupTestEnv(t)
	entry := filepath.Join(tmpDir, "config", "autostart", autostart.EntryName)

	mustExecute(t, "settings", "set", "startWithSystem", "on")
	assert.FileExists(t, entry)

	// Later runs keep the registration in step with the setting.
	mustExecute(t, "list")
	assert.FileExists(t, entry)

	mustExecute(t, "settings", "set", "startWithSystem", "off")
	assert.NoFileExists(t, entry)
}

func TestThemeCmd(t *testing.T) {
	setupTestEnv(t)

	assert.Equal(t, "Theme: light\n", mustExecute(t, "theme"))
	assert.Equal(t, "Theme: dark\n", mustExecute(t, "theme"))
	assert.Equal(t, "Theme: light\n", mustExecute(t, "theme", "LIGHT"))
	assert.Equal(t, "light\n", mustExecute(t, "settings", "get", "theme"))

	_, err := execute(t, "", "theme", "purple")
	assert.Error(t, err)
}

func TestOnTopCmd(t *testing.T) {
	setupTestEnv(t)

	assert.Equal(t, "Always on top: off\n", mustExecute(t, "ontop"))
	assert.Equal(t, "false\n", mustExecute(t, "settings", "get", "alwaysOnTop"))

	assert.Equal(t, "Always on top: on\n", mustExecute(t, "ontop", "on"))
	assert.Equal(t, "Always on top: off\n", mustExecute(t, "ontop", "off"))

	_, err := execute(t, "", "ontop", "sometimes")
	assert.ErrorIs(t, err, settings.ErrInvalidValue)
}

func TestSettingsCmd_Reset(t *testing.T) {
	setupTestEnv(t)
	mustExecute(t, "add", "Precious")
	mustExecute(t, "theme", "light")

	out, err := execute(t, "n\n", "settings", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "[y/N]")
	assert.Contains(t, out, "Aborted")
	assert.Equal(t, []string{"Precious"}, listOrder(t))

	out, err = execute(t, "y\n", "settings", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "All data cleared")
	assert.Empty(t, listOrder(t))
	assert.Equal(t, "dark\n", mustExecute(t, "settings", "get", "theme"))

	mustExecute(t, "add", "Again")
	out = mustExecute(t, "settings", "reset", "--yes")
	assert.NotContains(t, out, "[y/N]")
	assert.Empty(t, listOrder(t))
}
