// Package app provides configuration management and the application
// lifecycle for nescore.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"

	"nescore/internal/graphics"
)

// Config holds all application configuration
type Config struct {
	Window    WindowConfig    `json:"window"`
	Video     VideoConfig     `json:"video"`
	Input     InputConfig     `json:"input"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Paths     PathsConfig     `json:"paths"`

	configPath string
	loaded     bool
}

// WindowConfig contains window-related configuration
type WindowConfig struct {
	Title      string `json:"title"`
	Scale      int    `json:"scale"` // NES resolution multiplier
	Fullscreen bool   `json:"fullscreen"`
}

// VideoConfig contains video rendering configuration
type VideoConfig struct {
	Backend    string  `json:"backend"` // "ebitengine", "headless"
	VSync      bool    `json:"vsync"`
	ShowFPS    bool    `json:"show_fps"`
	Brightness float32 `json:"brightness"`
	Contrast   float32 `json:"contrast"`
}

// InputConfig contains input configuration
type InputConfig struct {
	Player1Keys KeyMapping `json:"player1_keys"`
	Player2Keys KeyMapping `json:"player2_keys"`
}

// KeyMapping represents keyboard key mappings for NES controller
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

// Names returns the key names in controller report order.
func (k KeyMapping) Names() [8]string {
	return [8]string{k.A, k.B, k.Select, k.Start, k.Up, k.Down, k.Left, k.Right}
}

// EmulationConfig contains emulation-specific settings
type EmulationConfig struct {
	MaxFrames int    `json:"max_frames"` // Headless run length, 0 runs until stopped
	Trace     string `json:"trace"`      // CPU trace output file
}

// DebugConfig contains debugging and development options
type DebugConfig struct {
	LogLevel    string `json:"log_level"` // "debug", "info", "warn", "error"
	Development bool   `json:"development"`
}

// PathsConfig contains file and directory paths
type PathsConfig struct {
	Screenshots   string `json:"screenshots"`
	CaptureFrames []int  `json:"capture_frames"`
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "nescore",
			Scale:      2, // 512x480
			Fullscreen: false,
		},
		Video: VideoConfig{
			Backend:    string(graphics.BackendEbitengine),
			VSync:      true,
			ShowFPS:    false,
			Brightness: 1.0,
			Contrast:   1.0,
		},
		Input: InputConfig{
			Player1Keys: KeyMapping{
				Up:     "W",
				Down:   "S",
				Left:   "A",
				Right:  "D",
				A:      "J",
				B:      "K",
				Start:  "Enter",
				Select: "Space",
			},
			Player2Keys: KeyMapping{
				Up:     "ArrowUp",
				Down:   "ArrowDown",
				Left:   "ArrowLeft",
				Right:  "ArrowRight",
				A:      "N",
				B:      "M",
				Start:  "ShiftRight",
				Select: "ControlRight",
			},
		},
		Emulation: EmulationConfig{
			MaxFrames: 120,
		},
		Debug: DebugConfig{
			LogLevel: "info",
		},
		Paths: PathsConfig{
			Screenshots: "./screenshots",
		},
	}
}

// LoadConfig reads a JSON config over the defaults. A missing file yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	c := NewConfig()
	c.configPath = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	c.loaded = true
	return c, nil
}

// Save writes the configuration as indented JSON.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	c.configPath = path
	return nil
}

// Validate rejects values that cannot work and repairs ones that have a
// sensible default.
func (c *Config) Validate() error {
	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}

	switch graphics.BackendType(c.Video.Backend) {
	case graphics.BackendEbitengine, graphics.BackendHeadless:
	case "":
		c.Video.Backend = string(graphics.BackendEbitengine)
	default:
		return &ConfigError{Field: "video.backend", Value: c.Video.Backend, Err: errors.New("unknown backend")}
	}

	if c.Video.Brightness < 0.1 || c.Video.Brightness > 3.0 {
		c.Video.Brightness = 1.0
	}
	if c.Video.Contrast < 0.1 || c.Video.Contrast > 3.0 {
		c.Video.Contrast = 1.0
	}

	if c.Emulation.MaxFrames < 0 {
		return &ConfigError{Field: "emulation.max_frames", Value: c.Emulation.MaxFrames, Err: errors.New("must not be negative")}
	}

	if _, err := c.LogLevel(); err != nil {
		return &ConfigError{Field: "debug.log_level", Value: c.Debug.LogLevel, Err: err}
	}

	for _, frame := range c.Paths.CaptureFrames {
		if frame <= 0 {
			return &ConfigError{Field: "paths.capture_frames", Value: frame, Err: errors.New("frames count from 1")}
		}
	}
	return nil
}

// LogLevel parses debug.log_level.
func (c *Config) LogLevel() (zapcore.Level, error) {
	return zapcore.ParseLevel(strings.ToLower(c.Debug.LogLevel))
}

// GraphicsConfig translates the config for the graphics frontends.
func (c *Config) GraphicsConfig() graphics.Config {
	return graphics.Config{
		Title:         c.Window.Title,
		Scale:         c.Window.Scale,
		Fullscreen:    c.Window.Fullscreen,
		VSync:         c.Video.VSync,
		ShowFPS:       c.Video.ShowFPS,
		Brightness:    c.Video.Brightness,
		Contrast:      c.Video.Contrast,
		Keys:          [2][8]string{c.Input.Player1Keys.Names(), c.Input.Player2Keys.Names()},
		MaxFrames:     c.Emulation.MaxFrames,
		CaptureFrames: c.Paths.CaptureFrames,
		CaptureDir:    c.Paths.Screenshots,
	}
}

// IsLoaded returns whether the configuration was loaded from file
func (c *Config) IsLoaded() bool {
	return c.loaded
}

// GetConfigPath returns the path to the config file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return "./config/nescore.json"
}

// ConfigError represents configuration-related errors
type ConfigError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s' with value '%v': %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
