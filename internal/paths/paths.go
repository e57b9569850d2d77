// Package paths resolves configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user config and data directories.
const AppName = "capitals"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CAPITALS_CONFIG_DIR"
	EnvDataDir   = "CAPITALS_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/capitals (fallback ~/.config/capitals)
// macOS:   ~/Library/Application Support/capitals
// Windows: %APPDATA%/capitals
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/capitals (fallback ~/.local/share/capitals)
// macOS:   ~/Library/Application Support/capitals
// Windows: %APPDATA%/capitals
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, homeRel string) (string, error) {
	if platformDir.goos != "linux" {
		// macOS and Windows keep config and data together.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > CAPITALS_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configValue (data_dir in config.yaml) > CAPITALS_DATA_DIR env >
// DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, dir := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	return DefaultDataDir()
}
