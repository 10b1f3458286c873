package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the loaded config for required fields and safe values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return errors.New("api.base_url must be set")
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("api.base_url is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("api.base_url must be http or https")
	}

	switch cfg.Mediation.Tone {
	case "calm", "friendly", "professional":
	default:
		return fmt.Errorf("mediation.tone must be calm, friendly or professional, got %q", cfg.Mediation.Tone)
	}

	switch cfg.Mediation.LangHint {
	case "auto", "en", "fr", "ar", "darija":
	default:
		return fmt.Errorf("mediation.lang_hint must be auto, en, fr, ar or darija, got %q", cfg.Mediation.LangHint)
	}

	if err := validateEventsConfig(cfg.Events); err != nil {
		return err
	}

	if err := validateTelemetryConfig(cfg.Telemetry); err != nil {
		return err
	}

	return nil
}

func validateEventsConfig(e EventsConfig) error {
	for i, s := range e.Sinks {
		switch strings.ToLower(strings.TrimSpace(s.Type)) {
		case "file_jsonl":
			if strings.TrimSpace(s.Path) == "" {
				return fmt.Errorf("events sink %d (file_jsonl) missing path", i)
			}
		case "webhook":
			if strings.TrimSpace(s.URL) == "" {
				return fmt.Errorf("events sink %d (webhook) missing url", i)
			}
			u, err := url.Parse(s.URL)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("events sink %d (webhook) has invalid url", i)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("events sink %d (webhook) url must be http or https", i)
			}
		default:
			return fmt.Errorf("events sink %d has unknown type %q", i, s.Type)
		}
	}
	return nil
}

func validateTelemetryConfig(t TelemetryConfig) error {
	if !t.Enabled {
		return nil
	}
	if strings.TrimSpace(t.Endpoint) == "" {
		return errors.New("telemetry enabled but endpoint is empty")
	}
	switch strings.ToLower(strings.TrimSpace(t.Protocol)) {
	case "grpc", "http":
	default:
		return fmt.Errorf("telemetry.protocol must be grpc or http, got %q", t.Protocol)
	}
	return nil
}
