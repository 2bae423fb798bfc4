// internal/master/guard_test.go
package master

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileGuard_ExcludesGoroutines(t *testing.T) {
	g, err := NewFileGuard(filepath.Join(t.TempDir(), "run", "eeprom.lock"))
	require.NoError(t, err)
	defer g.Close()

	g.Lock()

	acquired := make(chan struct{})
	go func() {
		g.Lock()
		close(acquired)
		g.Unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock succeeded while held")
	case <-time.After(50 * time.Millisecond):
	}

	g.Unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Lock never acquired")
	}
}

func TestFileGuard_SeparateHandlesExclude(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.lock")
	a, err := NewFileGuard(path)
	require.NoError(t, err)
	defer a.Close()
	b, err := NewFileGuard(path)
	require.NoError(t, err)
	defer b.Close()

	a.Lock()

	var wg sync.WaitGroup
	var got atomic.Bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		b.Lock()
		got.Store(true)
		b.Unlock()
	}()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, got.Load())

	a.Unlock()
	wg.Wait()
	assert.True(t, got.Load())
}
