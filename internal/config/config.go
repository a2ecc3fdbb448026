package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Capture CaptureConfig `yaml:"capture"`
}

type ConvertConfig struct {
	Output       string        `yaml:"output"`
	Backup       string        `yaml:"backup"`
	RawOutput    string        `yaml:"raw_output"`
	DeleteSource bool          `yaml:"delete_source"`
	TrackName    string        `yaml:"track_name"`
	Window       time.Duration `yaml:"window"`
	Strict       bool          `yaml:"strict"`
	Compact      bool          `yaml:"compact"`
}

type CaptureConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
	Output string `yaml:"output"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Convert.Window < 0 {
		return Config{}, fmt.Errorf("convert.window must be >= 0")
	}
	if cfg.Convert.Window == 0 {
		cfg.Convert.Window = 1 * time.Second
	}

	if cfg.Capture.Baud < 0 {
		return Config{}, fmt.Errorf("capture.baud must be > 0")
	}
	if cfg.Capture.Baud == 0 {
		cfg.Capture.Baud = 9600
	}
	if cfg.Capture.Device != "" && cfg.Capture.Output == "" {
		return Config{}, fmt.Errorf("capture.output is required when capture.device is set")
	}

	return cfg, nil
}
