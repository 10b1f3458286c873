package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds KeyCare coordinator configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Mediation MediationConfig `yaml:"mediation"`
	UI        UIConfig        `yaml:"ui"`
	Events    EventsConfig    `yaml:"events"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type APIConfig struct {
	BaseURL               string `yaml:"base_url"`                 // e.g. "https://api.keycare.app"
	ConnectTimeoutMS      int    `yaml:"connect_timeout_ms"`       // time to establish a connection
	ReadTimeoutMS         int    `yaml:"read_timeout_ms"`          // time to wait for the full response
	MaxAttempts           int    `yaml:"max_attempts"`             // attempts per logical request, retries included
	RetryDelayMS          int    `yaml:"retry_delay_ms"`           // fixed wait before the retry
	HealthCheckIntervalMS int    `yaml:"health_check_interval_ms"` // background health poll frequency
}

type MediationConfig struct {
	Tone            string `yaml:"tone"`              // calm | friendly | professional
	LangHint        string `yaml:"lang_hint"`         // auto | en | fr | ar | darija
	DebounceDelayMS int    `yaml:"debounce_delay_ms"` // quiet period before a request is issued
}

type UIConfig struct {
	UpdateDebounceMS int `yaml:"update_debounce_ms"` // coalescing window for intermediate results
	ShowDurationMS   int `yaml:"show_duration_ms"`   // banner fade/slide-in
	HideDurationMS   int `yaml:"hide_duration_ms"`   // banner fade/slide-out
}

type EventsConfig struct {
	Sinks []EventSinkConfig `yaml:"sinks"`
}

type EventSinkConfig struct {
	Type string `yaml:"type"` // file_jsonl | webhook
	Path string `yaml:"path"` // for file_jsonl
	URL  string `yaml:"url"`  // for webhook
}

type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Protocol string `yaml:"protocol"` // grpc | http
}

// Load reads configuration from a YAML file.
// If the file doesn't exist, it returns a default config and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://api.keycare.app"
	}
	if cfg.API.ConnectTimeoutMS <= 0 {
		cfg.API.ConnectTimeoutMS = 8000
	}
	if cfg.API.ReadTimeoutMS <= 0 {
		cfg.API.ReadTimeoutMS = 12000
	}
	if cfg.API.MaxAttempts <= 0 {
		cfg.API.MaxAttempts = 2
	}
	if cfg.API.RetryDelayMS <= 0 {
		cfg.API.RetryDelayMS = 1000
	}
	if cfg.API.HealthCheckIntervalMS <= 0 {
		cfg.API.HealthCheckIntervalMS = 30000
	}

	if cfg.Mediation.Tone == "" {
		cfg.Mediation.Tone = "calm"
	}
	if cfg.Mediation.LangHint == "" {
		cfg.Mediation.LangHint = "auto"
	}
	if cfg.Mediation.DebounceDelayMS <= 0 {
		cfg.Mediation.DebounceDelayMS = 800
	}

	if cfg.UI.UpdateDebounceMS <= 0 {
		cfg.UI.UpdateDebounceMS = 300
	}
	if cfg.UI.ShowDurationMS <= 0 {
		cfg.UI.ShowDurationMS = 250
	}
	if cfg.UI.HideDurationMS <= 0 {
		cfg.UI.HideDurationMS = 150
	}

	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
}

// Duration accessors so callers don't juggle millisecond ints.

func (a APIConfig) ConnectTimeout() time.Duration { return time.Duration(a.ConnectTimeoutMS) * time.Millisecond }
func (a APIConfig) ReadTimeout() time.Duration    { return time.Duration(a.ReadTimeoutMS) * time.Millisecond }
func (a APIConfig) RetryDelay() time.Duration     { return time.Duration(a.RetryDelayMS) * time.Millisecond }
func (a APIConfig) HealthCheckInterval() time.Duration {
	return time.Duration(a.HealthCheckIntervalMS) * time.Millisecond
}

func (m MediationConfig) DebounceDelay() time.Duration {
	return time.Duration(m.DebounceDelayMS) * time.Millisecond
}

func (u UIConfig) UpdateDebounce() time.Duration { return time.Duration(u.UpdateDebounceMS) * time.Millisecond }
func (u UIConfig) ShowDuration() time.Duration   { return time.Duration(u.ShowDurationMS) * time.Millisecond }
func (u UIConfig) HideDuration() time.Duration   { return time.Duration(u.HideDurationMS) * time.Millisecond }
