package config

import (
	"fmt"
	"os"
	"path/filepath"
)

var (
	getEnv      = os.Getenv
	userHomeDir = os.UserHomeDir
)

// GlobalConfigPath resolves the global config file path using XDG conventions.
func GlobalConfigPath() (string, error) {
	dir, err := ConfigHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, ConfigName+".yaml"), nil
}

// ConfigHome returns $XDG_CONFIG_HOME, defaulting to ~/.config.
func ConfigHome() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns the directory holding persisted widget data.
func DataDir() (string, error) {
	dir, err := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

func xdgDir(env, fallback string) (string, error) {
	if dir := getEnv(env); dir != "" {
		return dir, nil
	}

	homeDir, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}

	return filepath.Join(homeDir, fallback), nil
}
