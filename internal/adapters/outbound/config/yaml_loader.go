package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/openkraft/inspections/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the per-project configuration file.
const FileName = ".inspections.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .inspections.yaml.
type YAMLLoader struct {
	file     string
	required bool
}

// New creates a YAMLLoader for the project's .inspections.yaml.
func New() *YAMLLoader { return &YAMLLoader{file: FileName} }

// NewFile creates a YAMLLoader for an explicit config file. Relative paths
// resolve against the project. Unlike the default file it must exist.
func NewFile(path string) *YAMLLoader { return &YAMLLoader{file: path, required: true} }

// Load reads the config file from projectPath.
// Returns DefaultTaskConfig if the default file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.TaskConfig, error) {
	path := l.file
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectPath, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !l.required {
			return domain.DefaultTaskConfig(), nil
		}
		return domain.TaskConfig{}, &domain.ConfigParseError{Source: l.file, Msg: "cannot be read", Err: err}
	}

	var cfg domain.TaskConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.TaskConfig{}, &domain.ConfigParseError{Source: l.file, Msg: "malformed YAML", Err: err}
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return domain.TaskConfig{}, &domain.ConfigParseError{Source: l.file, Msg: "invalid configuration", Err: err}
	}

	if cfg.EnvFile != "" {
		props, err := mergeEnvFile(projectPath, cfg.EnvFile, cfg.Properties)
		if err != nil {
			return domain.TaskConfig{}, &domain.ConfigParseError{Source: cfg.EnvFile, Msg: "cannot load env file", Err: err}
		}
		cfg.Properties = props
	}

	return cfg, nil
}

// mergeEnvFile reads a dotenv file and overlays explicit properties on top.
// Explicit values always win.
func mergeEnvFile(projectPath, envFile string, explicit map[string]string) (map[string]string, error) {
	path := envFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectPath, path)
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	merged := make(map[string]string, len(env)+len(explicit))
	for k, v := range env {
		merged[k] = v
	}
	for k, v := range explicit {
		merged[k] = v
	}
	return merged, nil
}
