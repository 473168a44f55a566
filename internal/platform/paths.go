package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the per-user directory holding the app's settings and
// widget state, falling back to ~/.config when the OS reports none.
func ConfigDir(appName string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(appName))
	if name == "" {
		return "", fmt.Errorf("config dir: app name is empty")
	}

	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return filepath.Join(configDir, name), nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("config dir: %w", err)
		}
		return "", fmt.Errorf("config dir: %w", homeErr)
	}
	return filepath.Join(homeDir, ".config", name), nil
}
