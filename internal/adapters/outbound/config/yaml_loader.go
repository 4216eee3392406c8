package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/trunk-io/analytics-cli/internal/domain/settings"
)

const fileName = ".trunk-analytics.yaml"

// YAMLLoader reads project settings from .trunk-analytics.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .trunk-analytics.yaml from projectPath.
// Returns default settings if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (settings.Settings, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings.Default(), nil
		}
		return settings.Settings{}, err
	}

	var cfg settings.Settings
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return settings.Settings{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return settings.Settings{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	return cfg, nil
}
