// internal/status/constants.go
package status

// Link health codes reported after every communication evaluation.

// HealthUnknown represents too few calls to judge the link.
const HealthUnknown uint16 = 0

// HealthOK represents a link without recent timeouts.
const HealthOK uint16 = 1

// HealthDegraded represents timeouts below the failure ratio.
const HealthDegraded uint16 = 2

// HealthError represents a persistently unhealthy link.
const HealthError uint16 = 3

// HealthName returns the log name of a health code.
func HealthName(h uint16) string {
	switch h {
	case HealthUnknown:
		return "unknown"
	case HealthOK:
		return "ok"
	case HealthDegraded:
		return "degraded"
	case HealthError:
		return "error"
	default:
		return "invalid"
	}
}
