// internal/power/gpio.go
package power

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// GPIO drives the power line through the sysfs GPIO interface.
type GPIO struct {
	root string
	pin  int
}

// NewGPIO returns a sysfs GPIO controller, root is usually /sys/class/gpio.
func NewGPIO(root string, pin int) (*GPIO, error) {
	if root == "" {
		return nil, errors.New("power gpio: sysfs root required")
	}
	if pin < 0 {
		return nil, fmt.Errorf("power gpio: invalid pin %d", pin)
	}
	return &GPIO{root: root, pin: pin}, nil
}

func (g *GPIO) SetPower(_ context.Context, on bool) error {
	if err := g.ensureOutput(); err != nil {
		return err
	}

	value := "0"
	if on {
		value = "1"
	}
	path := filepath.Join(g.pinDir(), "value")
	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		return fmt.Errorf("power gpio: write %s: %w", path, err)
	}
	return nil
}

func (g *GPIO) pinDir() string {
	return filepath.Join(g.root, "gpio"+strconv.Itoa(g.pin))
}

// ensureOutput exports the pin when needed and sets its direction.
func (g *GPIO) ensureOutput() error {
	if _, err := os.Stat(g.pinDir()); os.IsNotExist(err) {
		export := filepath.Join(g.root, "export")
		if err := os.WriteFile(export, []byte(strconv.Itoa(g.pin)), 0644); err != nil {
			return fmt.Errorf("power gpio: export pin %d: %w", g.pin, err)
		}
	}

	path := filepath.Join(g.pinDir(), "direction")
	if err := os.WriteFile(path, []byte("out"), 0644); err != nil {
		return fmt.Errorf("power gpio: write %s: %w", path, err)
	}
	return nil
}
