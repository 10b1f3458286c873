package events

import (
	"fmt"
	"time"

	"github.com/keycare-ai/keycare/internal/config"
)

// BuildSinks constructs the configured sinks. An unknown type is an error so
// misconfiguration is caught at startup, not silently ignored.
func BuildSinks(cfg config.EventsConfig) ([]Sink, error) {
	sinks := make([]Sink, 0, len(cfg.Sinks))
	for i, sc := range cfg.Sinks {
		switch sc.Type {
		case "file_jsonl":
			s, err := NewJSONLSink(sc.Path)
			if err != nil {
				return nil, fmt.Errorf("events sink %d: %w", i, err)
			}
			sinks = append(sinks, s)
		case "webhook":
			s, err := NewWebhookSink(sc.URL, 2*time.Second)
			if err != nil {
				return nil, fmt.Errorf("events sink %d: %w", i, err)
			}
			sinks = append(sinks, s)
		default:
			return nil, fmt.Errorf("events sink %d: unknown type %q", i, sc.Type)
		}
	}
	return sinks, nil
}
