package ufat_test

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/friesendrywall/ufat-go/internal/blockdev"
	"github.com/friesendrywall/ufat-go/internal/ufat"
)

const (
	testSectors      = 64
	testSectorSize   = 128
	// testTableSectors must leave each table region (testTableSectors *
	// testSectorSize bytes) large enough for the non-aliased CRC prefix
	// plus the descriptor array: 4 + 2*testSectors. One sector of 128
	// bytes (the original C fixture's sizing, which aliases the CRC over
	// the first two descriptors) is too small once the CRC is stored
	// separately; two sectors give 256 bytes against a required 132.
	testTableSectors = 2
)

func newTestFS(t *testing.T, seed int64) (*ufat.FS, *blockdev.FileDevice) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "volume.img")
	size := int64(testSectors) * int64(testSectorSize)
	dev, err := blockdev.OpenFileDevice(path, size)
	if err != nil {
		t.Fatalf("OpenFileDevice: %v", err)
	}
	t.Cleanup(func() { dev.Close() })

	fs, err := ufat.New(ufat.Config{
		Device:       dev,
		Sectors:      testSectors,
		SectorSize:   testSectorSize,
		TableSectors: testTableSectors,
		Rand:         rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := fs.Format(); err != nil {
		t.Fatalf("Format: %v", err)
	}
	if err := fs.Mount(); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return fs, dev
}

func writeFile(t *testing.T, fs *ufat.FS, name string, data []byte) {
	t.Helper()
	h, err := fs.Open(name, "w")
	if err != nil {
		t.Fatalf("Open(%q, w): %v", name, err)
	}
	if _, err := h.Write(data); err != nil {
		_ = h.Close()
		t.Fatalf("Write(%q): %v", name, err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close(%q): %v", name, err)
	}
}

func readFile(t *testing.T, fs *ufat.FS, name string) []byte {
	t.Helper()
	h, err := fs.Open(name, "r")
	if err != nil {
		t.Fatalf("Open(%q, r): %v", name, err)
	}
	defer h.Close()
	buf := make([]byte, h.Len())
	n := 0
	for n < len(buf) {
		m, err := h.Read(buf[n:])
		n += m
		if err != nil {
			t.Fatalf("Read(%q): %v", name, err)
		}
		if m == 0 {
			break
		}
	}
	return buf[:n]
}
