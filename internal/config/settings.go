package config

import (
	"fmt"

	"github.com/agentroom/agentroom/internal/models"
)

// LoadSettings loads the global settings from ~/.agentroom/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return LoadSettingsFrom(path)
}

// LoadSettingsFrom loads settings from an explicit path, fills defaults and
// expands a leading "~" in the agents root.
func LoadSettingsFrom(path string) (*models.Settings, error) {
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	settings.ApplyDefaults()

	root, err := ExpandHome(settings.AgentsRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to expand agents root: %w", err)
	}
	settings.AgentsRoot = root
	return settings, nil
}

// SaveSettings saves the global settings to ~/.agentroom/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}
