// internal/status/encode.go
package status

import "log/slog"

// Encode converts a Snapshot into structured log attributes.
// No IO. No side effects.
func Encode(s Snapshot) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("health", HealthName(s.Health)),
		slog.Int("calls", s.Calls),
		slog.Int("timeouts", s.Timeouts),
		slog.Float64("ratio", s.Ratio),
	}
	if s.Action != "" {
		attrs = append(attrs, slog.String("action", s.Action))
	}
	return attrs
}
