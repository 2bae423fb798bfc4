// internal/settings/store_test.go
package settings

import (
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Reason  string `json:"reason"`
	Backoff int    `json:"backoff"`
}

func TestFileStore(t *testing.T) {
	t.Run("GetMissingKeepsDefault", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "settings.json"))

		v := sample{Reason: "default"}
		ok, err := s.Get("communication_recovery", &v)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok {
			t.Fatalf("Get() found a key in an empty store")
		}
		if v.Reason != "default" {
			t.Errorf("Get() overwrote default: %+v", v)
		}
	})

	t.Run("SetGetRemove", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "settings.json")
		s := NewFileStore(path)

		if err := s.Set("communication_recovery", sample{Reason: "communication_errors", Backoff: 600}); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := s.Set("other", 42); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		// A fresh store over the same file sees the values.
		s2 := NewFileStore(path)
		var got sample
		ok, err := s2.Get("communication_recovery", &got)
		if err != nil || !ok {
			t.Fatalf("Get() ok=%v err=%v", ok, err)
		}
		if got.Backoff != 600 || got.Reason != "communication_errors" {
			t.Errorf("Get() = %+v", got)
		}

		if err := s2.Remove("communication_recovery"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		ok, _ = s.Get("communication_recovery", &got)
		if ok {
			t.Errorf("key still present after Remove()")
		}

		var other int
		if ok, _ := s.Get("other", &other); !ok || other != 42 {
			t.Errorf("unrelated key lost: ok=%v v=%d", ok, other)
		}

		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Errorf("temporary file left behind")
		}
	})

	t.Run("RemoveMissingIsNoop", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "settings.json"))
		if err := s.Remove("nope"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
	})

	t.Run("CorruptFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		var v sample
		if _, err := NewFileStore(path).Get("x", &v); err == nil {
			t.Fatalf("expected parse error, got nil")
		}
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Set("k", sample{Backoff: 300}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	var v sample
	if ok, err := s.Get("k", &v); !ok || err != nil || v.Backoff != 300 {
		t.Fatalf("Get() ok=%v err=%v v=%+v", ok, err, v)
	}
	_ = s.Remove("k")
	if ok, _ := s.Get("k", &v); ok {
		t.Fatalf("key present after Remove()")
	}
}
