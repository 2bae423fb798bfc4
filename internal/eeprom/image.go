// internal/eeprom/image.go

// Package eeprom backs up and restores the master's configuration memory.
//
// The memory is 256 banks of 256 bytes. Reads are bank-sized, writes are
// 10-byte chunks; restore only rewrites chunks that differ.
package eeprom

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	Banks     = 256
	BankSize  = 256
	ChunkSize = 10
	ImageSize = Banks * BankSize
)

// ErrImageSize is returned for images that are not exactly ImageSize bytes.
var ErrImageSize = errors.New("eeprom: image must be 65536 bytes")

// Span is one chunk that differs between two images.
type Span struct {
	Bank   int
	Offset int
	Length int
}

// String returns the restore report marker, e.g. "B5A20".
func (s Span) String() string {
	return fmt.Sprintf("B%dA%d", s.Bank, s.Offset)
}

// Erased returns a factory-blank image (all 0xFF).
func Erased() []byte {
	img := make([]byte, ImageSize)
	for i := range img {
		img[i] = 0xFF
	}
	return img
}

// Diff returns the chunks in which b differs from a, in memory order.
func Diff(a, b []byte) ([]Span, error) {
	if err := checkSize(a); err != nil {
		return nil, err
	}
	if err := checkSize(b); err != nil {
		return nil, err
	}

	var spans []Span
	for bank := 0; bank < Banks; bank++ {
		base := bank * BankSize
		spans = append(spans, diffBank(bank, a[base:base+BankSize], b[base:base+BankSize])...)
	}
	return spans, nil
}

// diffBank compares one bank chunk by chunk. The last chunk is shorter.
func diffBank(bank int, cur, want []byte) []Span {
	var spans []Span
	for off := 0; off < len(cur); off += ChunkSize {
		end := off + ChunkSize
		if end > len(cur) {
			end = len(cur)
		}
		if string(cur[off:end]) != string(want[off:end]) {
			spans = append(spans, Span{Bank: bank, Offset: off, Length: end - off})
		}
	}
	return spans
}

// ReadImageFile loads a backup blob.
func ReadImageFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("eeprom: read %s: %w", path, err)
	}
	if err := checkSize(data); err != nil {
		return nil, fmt.Errorf("eeprom: %s: %w", path, err)
	}
	return data, nil
}

// WriteImageFile stores a backup blob, replacing path atomically.
func WriteImageFile(path string, img []byte) error {
	if err := checkSize(img); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("eeprom: mkdir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, img, 0644); err != nil {
		return fmt.Errorf("eeprom: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("eeprom: rename %s: %w", tmp, err)
	}
	return nil
}

func checkSize(img []byte) error {
	if len(img) != ImageSize {
		return fmt.Errorf("%w (got %d)", ErrImageSize, len(img))
	}
	return nil
}
