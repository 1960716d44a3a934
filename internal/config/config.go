// Package config loads squatcam configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/squatcam/pkg/counter"
	"github.com/teslashibe/squatcam/pkg/pose"
)

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
	Camera  CameraConfig  `yaml:"camera"`
	Pose    PoseConfig    `yaml:"pose"`
	Counter CounterConfig `yaml:"counter"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address for the web server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type CameraConfig struct {
	// Device is the local camera index used when neither RemoteURL nor
	// VideoFile is set.
	Device int    `yaml:"device"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// RemoteURL points at a companion capture daemon pushing JPEG
	// frames over websocket, e.g. ws://192.168.1.50:8443/frames.
	RemoteURL string `yaml:"remote_url"`
	// VideoFile plays back a recorded file instead of a live camera.
	VideoFile string `yaml:"video_file"`
}

type PoseConfig struct {
	ModelPath   string  `yaml:"model_path"`
	ScoreThresh float64 `yaml:"score_thresh"`
	InputSize   int     `yaml:"input_size"`
}

type CounterConfig struct {
	DownThreshold   float64 `yaml:"down_threshold"`
	UpThreshold     float64 `yaml:"up_threshold"`
	CooldownSeconds float64 `yaml:"cooldown_seconds"`
	MinVisibility   float64 `yaml:"min_visibility"`
	UprightMargin   float64 `yaml:"upright_margin"`
	HistorySize     int     `yaml:"history_size"`
}

// Default returns the built-in configuration.
func Default() *Config {
	pc := pose.DefaultConfig()
	cc := counter.DefaultConfig()
	return &Config{
		Log:    LogConfig{Level: "info"},
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Camera: CameraConfig{Device: 0, Width: 640, Height: 480},
		Pose: PoseConfig{
			ModelPath:   pc.ModelPath,
			ScoreThresh: pc.ScoreThresh,
			InputSize:   pc.InputSize,
		},
		Counter: CounterConfig{
			DownThreshold:   cc.DownThreshold,
			UpThreshold:     cc.UpThreshold,
			CooldownSeconds: cc.Cooldown.Seconds(),
			MinVisibility:   cc.MinVisibility,
			UprightMargin:   cc.UprightMargin,
			HistorySize:     cc.HistorySize,
		},
	}
}

// Load layers a YAML file (optional: empty path uses defaults) and
// SQUATCAM_* environment overrides on top of the defaults:
//
//	SQUATCAM_LOG_LEVEL, SQUATCAM_SERVER_HOST, SQUATCAM_SERVER_PORT,
//	SQUATCAM_CAMERA_DEVICE, SQUATCAM_CAMERA_REMOTE_URL,
//	SQUATCAM_POSE_MODEL_PATH
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SQUATCAM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SQUATCAM_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SQUATCAM_SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("SQUATCAM_CAMERA_DEVICE"); v != "" {
		if d, err := strconv.Atoi(v); err == nil {
			cfg.Camera.Device = d
		}
	}
	if v := os.Getenv("SQUATCAM_CAMERA_REMOTE_URL"); v != "" {
		cfg.Camera.RemoteURL = v
	}
	if v := os.Getenv("SQUATCAM_POSE_MODEL_PATH"); v != "" {
		cfg.Pose.ModelPath = v
	}
}

// Validate rejects configurations that would break counting.
func (c *Config) Validate() error {
	if c.Counter.DownThreshold >= c.Counter.UpThreshold {
		return fmt.Errorf("counter: down_threshold (%v) must be below up_threshold (%v)",
			c.Counter.DownThreshold, c.Counter.UpThreshold)
	}
	if c.Counter.HistorySize < 1 {
		return fmt.Errorf("counter: history_size must be at least 1")
	}
	if c.Counter.MinVisibility < 0 || c.Counter.MinVisibility > 1 {
		return fmt.Errorf("counter: min_visibility must be in [0,1]")
	}
	return nil
}

// CounterConfig converts the YAML section into the counter package's
// runtime configuration.
func (c *Config) CounterConfig() counter.Config {
	return counter.Config{
		DownThreshold: c.Counter.DownThreshold,
		UpThreshold:   c.Counter.UpThreshold,
		Cooldown:      time.Duration(c.Counter.CooldownSeconds * float64(time.Second)),
		MinVisibility: c.Counter.MinVisibility,
		UprightMargin: c.Counter.UprightMargin,
		HistorySize:   c.Counter.HistorySize,
	}
}

// PoseConfig converts the YAML section into the pose package's detector
// configuration.
func (c *Config) PoseConfig() pose.Config {
	return pose.Config{
		ModelPath:   c.Pose.ModelPath,
		ScoreThresh: c.Pose.ScoreThresh,
		InputSize:   c.Pose.InputSize,
	}
}
