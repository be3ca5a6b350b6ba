package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const maxRecentFiles = 10

type inspectorSettings struct {
	LastMovieDir string   `json:"last_movie_dir"`
	LastMovie    string   `json:"last_movie"`
	RecentFiles  []string `json:"recent_files"`
	LogEnabled   bool     `json:"log_enabled"`
}

func defaultInspectorSettings() inspectorSettings {
	return inspectorSettings{
		RecentFiles: []string{},
		LogEnabled:  true,
	}
}

func inspectorSettingsPath() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil || cfgDir == "" {
		return ""
	}
	return filepath.Join(cfgDir, "swfplay", "inspector_settings.json")
}

func loadInspectorSettings(path string) (inspectorSettings, error) {
	settings := defaultInspectorSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, err
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return defaultInspectorSettings(), err
	}
	return settings, nil
}

func saveInspectorSettings(path string, settings inspectorSettings) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *inspectorSettings) addRecentFile(path string) {
	recent := []string{path}
	for _, f := range s.RecentFiles {
		if f != path {
			recent = append(recent, f)
		}
		if len(recent) >= maxRecentFiles {
			break
		}
	}
	s.RecentFiles = recent
	s.LastMovie = path
	s.LastMovieDir = filepath.Dir(path)
}
