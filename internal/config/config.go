// Package config loads floorsign settings from a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/floorsign/internal/floor"
	"github.com/ayusman/floorsign/internal/gesture"
)

// maxFileSize caps the config file at 1MB.
const maxFileSize = 1 * 1024 * 1024

// Config is the root configuration. Every field is optional; the Get*
// methods fall back to defaults for anything left out, so partial files
// are safe.
type Config struct {
	// Capture
	CameraID        *int     `json:"camera_id,omitempty"`
	Mirror          *bool    `json:"mirror,omitempty"`
	MotionThreshold *float64 `json:"motion_threshold,omitempty"`
	IdleTimeout     *string  `json:"idle_timeout,omitempty"` // duration string like "2s"

	// Classification and debounce
	Margin           *float64       `json:"margin,omitempty"`
	InitialThreshold *int           `json:"initial_threshold,omitempty"`
	Lanes            []gesture.Lane `json:"lanes,omitempty"`

	// Shell
	ListenAddr  *string `json:"listen_addr,omitempty"`
	DataDir     *string `json:"data_dir,omitempty"`
	PluginDir   *string `json:"plugin_dir,omitempty"`
	SoundPlugin *string `json:"sound_plugin,omitempty"`
	SoundDir    *string `json:"sound_dir,omitempty"`

	// Lift controller link; empty port disables it.
	SerialPort *string `json:"serial_port,omitempty"`
	SerialBaud *int    `json:"serial_baud,omitempty"`
}

// Default returns an empty Config; its getters yield the built-in defaults.
func Default() *Config {
	return &Config{}
}

// Load reads and validates a Config from a JSON file.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	if c.Margin != nil && (*c.Margin < 0 || *c.Margin >= 1) {
		return fmt.Errorf("margin must be in [0, 1), got %f", *c.Margin)
	}

	if c.InitialThreshold != nil && *c.InitialThreshold < 1 {
		return fmt.Errorf("initial_threshold must be at least 1, got %d", *c.InitialThreshold)
	}

	if c.MotionThreshold != nil && *c.MotionThreshold <= 0 {
		return fmt.Errorf("motion_threshold must be positive, got %f", *c.MotionThreshold)
	}

	if c.IdleTimeout != nil && *c.IdleTimeout != "" {
		if _, err := time.ParseDuration(*c.IdleTimeout); err != nil {
			return fmt.Errorf("invalid idle_timeout '%s': %w", *c.IdleTimeout, err)
		}
	}

	if c.SerialBaud != nil && *c.SerialBaud <= 0 {
		return fmt.Errorf("serial_baud must be positive, got %d", *c.SerialBaud)
	}

	if len(c.Lanes) > 0 {
		if _, err := gesture.NewStabilizer(c.Lanes); err != nil {
			return fmt.Errorf("lanes: %w", err)
		}
	}

	return nil
}

// GetCameraID returns the camera device index.
func (c *Config) GetCameraID() int {
	if c.CameraID == nil {
		return 0
	}
	return *c.CameraID
}

// GetMirror reports whether frames are flipped before detection.
func (c *Config) GetMirror() bool {
	if c.Mirror == nil {
		return true
	}
	return *c.Mirror
}

// GetMotionThreshold returns the percentage of changed pixels that counts as motion.
func (c *Config) GetMotionThreshold() float64 {
	if c.MotionThreshold == nil {
		return 1.0
	}
	return *c.MotionThreshold
}

// GetIdleTimeout returns how long the pipeline stays active without motion or a hand.
func (c *Config) GetIdleTimeout() time.Duration {
	if c.IdleTimeout == nil || *c.IdleTimeout == "" {
		return 2 * time.Second
	}
	d, err := time.ParseDuration(*c.IdleTimeout)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// GetMargin returns the classifier wrist margin.
func (c *Config) GetMargin() float64 {
	if c.Margin == nil {
		return 0
	}
	return *c.Margin
}

// GetInitialThreshold returns the number of confirm frames that arm selection.
func (c *Config) GetInitialThreshold() int {
	if c.InitialThreshold == nil {
		return floor.DefaultInitialThreshold
	}
	return *c.InitialThreshold
}

// GetLanes returns the configured lanes or the canonical set.
func (c *Config) GetLanes() []gesture.Lane {
	if len(c.Lanes) == 0 {
		return gesture.DefaultLanes()
	}
	out := make([]gesture.Lane, len(c.Lanes))
	copy(out, c.Lanes)
	return out
}

// GetListenAddr returns the HTTP listen address.
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == nil || *c.ListenAddr == "" {
		return ":8080"
	}
	return *c.ListenAddr
}

// GetDataDir returns the directory holding the database, plugins and sounds.
func (c *Config) GetDataDir() string {
	if c.DataDir != nil && *c.DataDir != "" {
		return *c.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".floorsign"
	}
	return filepath.Join(home, ".floorsign")
}

// GetPluginDir returns the plugin directory.
func (c *Config) GetPluginDir() string {
	if c.PluginDir == nil || *c.PluginDir == "" {
		return filepath.Join(c.GetDataDir(), "plugins")
	}
	return *c.PluginDir
}

// GetSoundPlugin returns the name of the plugin that plays clips.
func (c *Config) GetSoundPlugin() string {
	if c.SoundPlugin == nil || *c.SoundPlugin == "" {
		return "sound"
	}
	return *c.SoundPlugin
}

// GetSoundDir returns the directory holding the clip files.
func (c *Config) GetSoundDir() string {
	if c.SoundDir == nil || *c.SoundDir == "" {
		return filepath.Join(c.GetDataDir(), "sounds")
	}
	return *c.SoundDir
}

// GetSerialPort returns the lift controller port, empty when disabled.
func (c *Config) GetSerialPort() string {
	if c.SerialPort == nil {
		return ""
	}
	return *c.SerialPort
}

// GetSerialBaud returns the lift controller baud rate.
func (c *Config) GetSerialBaud() int {
	if c.SerialBaud == nil {
		return 9600
	}
	return *c.SerialBaud
}
