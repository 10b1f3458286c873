package telemetry

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Keys that must never reach the telemetry backend. The coordinator handles
// what people type; text and identifiers stay on the device.
var denyKeys = []string{
	"text",
	"message",
	"suggestion",
	"authorization",
	"api_key",
	"token_value",
	"email",
	"phone",
}

// SafeAttributes drops denied keys and unsupported types, returning OTEL
// attributes safe to export.
func SafeAttributes(values map[string]interface{}) []attribute.KeyValue {
	if len(values) == 0 {
		return nil
	}
	var attrs []attribute.KeyValue
	for k, v := range values {
		lk := strings.ToLower(k)
		denied := false
		for _, bad := range denyKeys {
			if strings.Contains(lk, bad) {
				denied = true
				break
			}
		}
		if denied {
			continue
		}
		switch val := v.(type) {
		case string:
			if len(val) > 256 {
				continue
			}
			attrs = append(attrs, attribute.String(k, val))
		case bool:
			attrs = append(attrs, attribute.Bool(k, val))
		case int:
			attrs = append(attrs, attribute.Int(k, val))
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case float64:
			attrs = append(attrs, attribute.Float64(k, val))
		default:
			// unsupported types ignored
		}
	}
	return attrs
}
