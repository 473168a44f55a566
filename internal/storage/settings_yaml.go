package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aetheris/internal/core/model"
	"gopkg.in/yaml.v3"
)

// SettingsFileName is the YAML file holding user preferences.
const SettingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes   int    `yaml:"work_minutes"`
	BreakMinutes  int    `yaml:"break_minutes"`
	TickMillis    int    `yaml:"tick_millis"`
	Storage       string `yaml:"storage"`
	Notifications *bool  `yaml:"notifications"`
	HTTPAddr      string `yaml:"http_addr"`
}

// LoadSettings reads user preferences from the YAML file at path.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to the YAML file at path.
func SaveSettings(path string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	notifications := settings.Notifications
	fileData := yamlSettings{
		WorkMinutes:   int(settings.WorkDuration / time.Minute),
		BreakMinutes:  int(settings.BreakDuration / time.Minute),
		TickMillis:    int(settings.TickInterval / time.Millisecond),
		Storage:       string(settings.Storage),
		Notifications: &notifications,
		HTTPAddr:      settings.HTTPAddr,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		settings.WorkDuration = time.Duration(fileData.WorkMinutes) * time.Minute
	}
	if fileData.BreakMinutes > 0 {
		settings.BreakDuration = time.Duration(fileData.BreakMinutes) * time.Minute
	}
	if tick := time.Duration(fileData.TickMillis) * time.Millisecond; model.ValidTickInterval(tick) {
		settings.TickInterval = tick
	}

	switch model.StorageBackend(fileData.Storage) {
	case model.StorageSQLite, model.StorageYAML:
		settings.Storage = model.StorageBackend(fileData.Storage)
	}

	if fileData.Notifications != nil {
		settings.Notifications = *fileData.Notifications
	}
	if fileData.HTTPAddr == "" || model.CheckLoopback(fileData.HTTPAddr) == nil {
		settings.HTTPAddr = fileData.HTTPAddr
	}
}
