// Package config loads and validates the visualizer options file
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dcarrick/meshview/pkg/camera"
	"github.com/dcarrick/meshview/pkg/physics"
	"github.com/dcarrick/meshview/pkg/render"
	"github.com/dcarrick/meshview/pkg/scene"
)

// Viewport is the output surface size in pixels
type Viewport struct {
	Width  int `yaml:"width" validate:"gte=0"`
	Height int `yaml:"height" validate:"gte=0"`
}

// Config is the full option set. Zero-valued sections are filled from
// defaults on load, so a partial file only has to name what it changes.
type Config struct {
	Viewport  Viewport       `yaml:"viewport"`
	FrameRate int            `yaml:"frame_rate" validate:"gt=0,lte=240"`
	Animate   bool           `yaml:"animate"`
	Scene     scene.Config   `yaml:"scene"`
	Physics   physics.Config `yaml:"physics"`
	Camera    camera.Config  `yaml:"camera"`
	Render    render.Config  `yaml:"render"`
}

// Default returns the reference configuration
func Default() Config {
	return Config{
		Viewport:  Viewport{Width: 800, Height: 600},
		FrameRate: 30,
		Animate:   true,
		Scene:     scene.DefaultConfig(),
		Physics:   physics.DefaultConfig(),
		Camera:    camera.DefaultConfig(),
		Render:    render.DefaultConfig(),
	}
}

// FrameDuration returns the tick interval for the configured frame rate
func (c Config) FrameDuration() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.FrameRate)
}

// Load reads a YAML options file over the defaults. A missing file is not
// an error: the defaults apply unchanged. Malformed YAML or a config that
// fails validation is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field constraints plus the cross-field camera range
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Camera.MinDistance > c.Camera.MaxDistance {
		return fmt.Errorf("camera min_distance %v exceeds max_distance %v",
			c.Camera.MinDistance, c.Camera.MaxDistance)
	}
	if c.Camera.Distance < c.Camera.MinDistance || c.Camera.Distance > c.Camera.MaxDistance {
		return fmt.Errorf("camera distance %v outside [%v, %v]",
			c.Camera.Distance, c.Camera.MinDistance, c.Camera.MaxDistance)
	}
	return nil
}
