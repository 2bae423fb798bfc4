// internal/master/fields.go
package master

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Fields is the named field mapping of a command request or response.
// Values arrive either as Go values (in-process links) or as decoded JSON
// (bridge links), so the accessors accept both shapes.
type Fields map[string]any

// Int returns an integer field.
func (f Fields) Int(key string) (int, error) {
	v, ok := f[key]
	if !ok {
		return 0, fmt.Errorf("master: missing field %q", key)
	}

	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case uint8:
		return int(x), nil
	case uint16:
		return int(x), nil
	case float64:
		return int(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, fmt.Errorf("master: field %q: %w", key, err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("master: field %q has type %T, want integer", key, v)
	}
}

// Bytes returns a byte-string field. JSON transports carry []byte as base64.
func (f Fields) Bytes(key string) ([]byte, error) {
	v, ok := f[key]
	if !ok {
		return nil, fmt.Errorf("master: missing field %q", key)
	}

	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		b, err := base64.StdEncoding.DecodeString(x)
		if err != nil {
			return nil, fmt.Errorf("master: field %q: %w", key, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("master: field %q has type %T, want bytes", key, v)
	}
}

// String returns a text field.
func (f Fields) String(key string) (string, error) {
	v, ok := f[key]
	if !ok {
		return "", fmt.Errorf("master: missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("master: field %q has type %T, want string", key, v)
	}
	return s, nil
}
