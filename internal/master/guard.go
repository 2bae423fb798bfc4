// internal/master/guard.go
package master

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"
)

// FileGuard is a sync.Locker that also excludes other processes holding
// the same lock file. Configuration memory users in separate binaries
// share one guard path.
type FileGuard struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileGuard opens (or creates) the lock file at path.
func NewFileGuard(path string) (*FileGuard, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("master: guard dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("master: open guard: %w", err)
	}
	return &FileGuard{file: f}, nil
}

func (g *FileGuard) Lock() {
	g.mu.Lock()
	if err := flock(g.file, syscall.LOCK_EX); err != nil {
		slog.Error("guard: lock failed, continuing with in-process lock only",
			slog.String("path", g.file.Name()), slog.Any("err", err))
	}
}

func (g *FileGuard) Unlock() {
	if err := flock(g.file, syscall.LOCK_UN); err != nil {
		slog.Error("guard: unlock failed", slog.String("path", g.file.Name()), slog.Any("err", err))
	}
	g.mu.Unlock()
}

// Close releases the lock file.
func (g *FileGuard) Close() error {
	return g.file.Close()
}

func flock(f *os.File, how int) error {
	for {
		err := syscall.Flock(int(f.Fd()), how)
		if !errors.Is(err, syscall.EINTR) {
			return err
		}
	}
}

var _ sync.Locker = (*FileGuard)(nil)
