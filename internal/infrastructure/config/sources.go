package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"aiinsights.blog/cli/internal/application/ports"
)

// FileConfigSource loads configuration from a YAML file
type FileConfigSource struct {
	filePath string
}

// NewFileConfigSource creates a new file configuration source
func NewFileConfigSource(filePath string) *FileConfigSource {
	return &FileConfigSource{filePath: filePath}
}

// Load returns nil when the file does not exist
func (f *FileConfigSource) Load() (*ports.Configuration, error) {
	data, err := os.ReadFile(f.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config ports.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", f.filePath, err)
	}

	return &config, nil
}

func (f *FileConfigSource) Priority() int {
	return 10
}

func (f *FileConfigSource) Name() string {
	return "file"
}

// EnvironmentConfigSource loads INSIGHTS_* environment variables
type EnvironmentConfigSource struct {
	environment map[string]string
}

// NewEnvironmentConfigSource reads the process environment
func NewEnvironmentConfigSource() *EnvironmentConfigSource {
	return &EnvironmentConfigSource{}
}

// NewStaticEnvironmentConfigSource reads from a fixed map instead of the process
func NewStaticEnvironmentConfigSource(environment map[string]string) *EnvironmentConfigSource {
	return &EnvironmentConfigSource{environment: environment}
}

func (e *EnvironmentConfigSource) Load() (*ports.Configuration, error) {
	var config ports.Configuration
	if err := ParseEnv(&config, e.environment); err != nil {
		return nil, err
	}
	return &config, nil
}

func (e *EnvironmentConfigSource) Priority() int {
	return 20
}

func (e *EnvironmentConfigSource) Name() string {
	return "environment"
}

// ParseEnv loads env-tagged fields of target. A nil environment means the
// process environment.
func ParseEnv(target any, environment map[string]string) error {
	var err error
	if environment == nil {
		err = env.Parse(target)
	} else {
		err = env.ParseWithOptions(target, env.Options{Environment: environment})
	}
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
