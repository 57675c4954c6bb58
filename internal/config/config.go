// Package config handles meshbake configuration loading and management.
package config

import (
	"errors"
	"time"
)

// ErrNoInput is returned by Validate when no input file is configured.
var ErrNoInput = errors.New("no input file configured")

// Config holds all bake settings.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Bake    BakeConfig    `yaml:"bake"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig locates the source document.
type InputConfig struct {
	BaseDir string `yaml:"base_dir"` // Directory external resources resolve against
	File    string `yaml:"file"`     // Manifest name relative to BaseDir
}

// OutputConfig locates the baked document.
type OutputConfig struct {
	Dir        string `yaml:"dir"` // Defaults to the input base directory
	File       string `yaml:"file"`
	BufferName string `yaml:"buffer_name"`
	Binary     bool   `yaml:"binary"` // Write a GLB container
}

// BakeConfig holds pipeline switches.
type BakeConfig struct {
	TransformNormals bool `yaml:"transform_normals"`
	KeepCamera       bool `yaml:"keep_camera"`
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			BaseDir: ".",
			File:    "",
		},
		Output: OutputConfig{
			Dir:        "",
			File:       "MergedMesh.gltf",
			BufferName: "MergedMesh",
			Binary:     false,
		},
		Bake: BakeConfig{
			TransformNormals: false,
			KeepCamera:       true,
		},
		Watch: WatchConfig{
			Debounce: 250 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// OutputDir returns the directory the baked document is written to.
func (c *Config) OutputDir() string {
	if c.Output.Dir != "" {
		return c.Output.Dir
	}
	return c.Input.BaseDir
}

// Validate reports settings that make a bake impossible.
func (c *Config) Validate() error {
	if c.Input.File == "" {
		return ErrNoInput
	}
	return nil
}
