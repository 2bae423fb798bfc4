// internal/eeprom/engine.go
package eeprom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tamzrod/master-gateway/internal/master"
)

// ActivatedMarker ends every restore report.
const ActivatedMarker = "Activated eeprom"

// DefaultRetryPause lets the master recover after a timed out bank read.
const DefaultRetryPause = 2 * time.Second

// Engine runs backup and restore against a master link.
type Engine struct {
	link       master.Executor
	guard      sync.Locker
	retryPause time.Duration
	log        *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// New returns an Engine. guard is held for the whole of each operation and
// must be shared with anything else touching configuration memory.
func New(link master.Executor, guard sync.Locker, retryPause time.Duration, logger *slog.Logger) *Engine {
	if guard == nil {
		guard = &sync.Mutex{}
	}
	if retryPause < 0 {
		retryPause = DefaultRetryPause
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		link:       link,
		guard:      guard,
		retryPause: retryPause,
		log:        logger,
		sleep:      sleepCtx,
	}
}

// Backup reads all banks into a 65536-byte image. A bank that times out is
// retried once; a second timeout aborts the backup.
func (e *Engine) Backup(ctx context.Context) ([]byte, error) {
	e.guard.Lock()
	defer e.guard.Unlock()

	img := make([]byte, 0, ImageSize)
	for bank := 0; bank < Banks; bank++ {
		data, err := e.readBank(ctx, bank)
		if err != nil {
			return nil, err
		}
		img = append(img, data...)
	}
	return img, nil
}

func (e *Engine) readBank(ctx context.Context, bank int) ([]byte, error) {
	data, err := master.ReadBank(ctx, e.link, bank)
	if errors.Is(err, master.ErrLinkTimeout) {
		e.log.Warn("timeout reading bank, retrying", slog.Int("bank", bank))
		if serr := e.sleep(ctx, e.retryPause); serr != nil {
			return nil, serr
		}
		data, err = master.ReadBank(ctx, e.link, bank)
	}
	if err != nil {
		return nil, fmt.Errorf("eeprom: read bank=%d: %w", bank, err)
	}
	if len(data) != BankSize {
		return nil, fmt.Errorf("eeprom: read bank=%d: got %d bytes, want %d", bank, len(data), BankSize)
	}
	return data, nil
}

// Restore makes the master memory equal to img, writing only the chunks
// that differ. It returns one marker per written chunk followed by
// ActivatedMarker. A failed read or write aborts the restore.
func (e *Engine) Restore(ctx context.Context, img []byte) ([]string, error) {
	if err := checkSize(img); err != nil {
		return nil, err
	}

	e.guard.Lock()
	defer e.guard.Unlock()

	var report []string
	for bank := 0; bank < Banks; bank++ {
		cur, err := master.ReadBank(ctx, e.link, bank)
		if err != nil {
			return report, fmt.Errorf("eeprom: restore read bank=%d: %w", bank, err)
		}
		if len(cur) != BankSize {
			return report, fmt.Errorf("eeprom: restore read bank=%d: got %d bytes, want %d", bank, len(cur), BankSize)
		}

		want := img[bank*BankSize : (bank+1)*BankSize]
		for _, s := range diffBank(bank, cur, want) {
			chunk := want[s.Offset : s.Offset+s.Length]
			if err := master.WriteBank(ctx, e.link, bank, s.Offset, chunk); err != nil {
				return report, fmt.Errorf("eeprom: restore write bank=%d offset=%d: %w", bank, s.Offset, err)
			}
			report = append(report, s.String())
		}
	}

	if err := master.ActivateEeprom(ctx, e.link); err != nil {
		return report, fmt.Errorf("eeprom: activate: %w", err)
	}
	report = append(report, ActivatedMarker)

	e.log.Info("eeprom restored", slog.Int("chunks", len(report)-1))
	return report, nil
}

// FactoryWipe restores the erased image.
func (e *Engine) FactoryWipe(ctx context.Context) ([]string, error) {
	return e.Restore(ctx, Erased())
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
