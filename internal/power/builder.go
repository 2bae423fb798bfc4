// internal/power/builder.go
package power

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/master-gateway/internal/config"
)

// Build constructs the configured power controller.
// Driver "none" returns a nil Controller and a no-op closer.
func Build(c cfg.PowerConfig) (Controller, func() error, error) {
	noop := func() error { return nil }

	switch c.Driver {
	case "", "none":
		return nil, noop, nil

	case "gpio":
		if c.GPIO.Pin == nil {
			return nil, nil, fmt.Errorf("power: gpio pin required")
		}
		g, err := NewGPIO(c.GPIO.SysfsRoot, *c.GPIO.Pin)
		if err != nil {
			return nil, nil, err
		}
		return g, noop, nil

	case "modbus":
		r, err := NewRelay(RelayConfig{
			Endpoint: c.Modbus.Endpoint,
			SlaveID:  c.Modbus.SlaveID,
			Coil:     c.Modbus.Coil,
			BaudRate: c.Modbus.BaudRate,
			Timeout:  time.Duration(c.Modbus.TimeoutMs) * time.Millisecond,
			Inverted: c.Modbus.Inverted,
		})
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	}

	return nil, nil, fmt.Errorf("power: unknown driver %q", c.Driver)
}
