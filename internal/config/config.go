// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full set of runtime settings. Every field can be set with
// a CYBERPUPPET_ variable; command-line flags override after Load.
type Config struct {
	Addr string `env:"ADDR" envDefault:"127.0.0.1:8420"`

	CameraID int  `env:"CAMERA_ID" envDefault:"0"`
	Mirror   bool `env:"MIRROR" envDefault:"true"`

	IdleFPS         int           `env:"IDLE_FPS" envDefault:"5"`
	ActiveFPS       int           `env:"ACTIVE_FPS" envDefault:"15"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"2s"`
	RenderFPS       int           `env:"RENDER_FPS" envDefault:"60"`
	MotionThreshold float64       `env:"MOTION_THRESHOLD" envDefault:"1.0"`

	ConfirmCapacity  int `env:"CONFIRM_CAPACITY" envDefault:"5"`
	ConfirmThreshold int `env:"CONFIRM_THRESHOLD" envDefault:"3"`

	DataDir    string `env:"DATA_DIR"`
	PluginDir  string `env:"PLUGIN_DIR"`
	WebDir     string `env:"WEB_DIR" envDefault:"web"`
	TuningFile string `env:"TUNING_FILE"`

	Sound bool `env:"SOUND" envDefault:"true"`
	Tray  bool `env:"TRAY" envDefault:"true"`

	MQTT MQTT `envPrefix:"MQTT_"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"auto"`
}

// MQTT configures the optional gesture publisher. An empty Broker disables
// it.
type MQTT struct {
	Broker       string        `env:"BROKER"`
	ClientID     string        `env:"CLIENT_ID" envDefault:"cyberpuppet"`
	TopicPrefix  string        `env:"TOPIC_PREFIX" envDefault:"cyberpuppet"`
	PoseInterval time.Duration `env:"POSE_INTERVAL" envDefault:"100ms"`
}

// Prefix is prepended to every variable name.
const Prefix = "CYBERPUPPET_"

// envFiles are loaded in order; a variable already set wins.
var envFiles = []string{".env.local", ".env"}

// Load reads .env files from the working directory, then parses the
// environment.
func Load() (Config, error) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
	return Parse(nil)
}

// Parse builds a Config from environ, or from the process environment when
// environ is nil.
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Prefix: Prefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if cfg.PluginDir == "" {
		cfg.PluginDir = filepath.Join(cfg.DataDir, "plugins")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	switch {
	case c.IdleFPS <= 0 || c.ActiveFPS <= 0 || c.RenderFPS <= 0:
		return fmt.Errorf("frame rates must be positive (idle %d, active %d, render %d)",
			c.IdleFPS, c.ActiveFPS, c.RenderFPS)
	case c.ConfirmThreshold < 1 || c.ConfirmThreshold > c.ConfirmCapacity:
		return fmt.Errorf("confirm threshold %d must be in 1..%d", c.ConfirmThreshold, c.ConfirmCapacity)
	case c.MotionThreshold < 0:
		return fmt.Errorf("motion threshold %v must not be negative", c.MotionThreshold)
	}
	return nil
}

// DatabasePath is the sqlite journal location.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "cyberpuppet.db")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cyberpuppet"
	}
	return filepath.Join(home, ".cyberpuppet")
}
