package ufat_test

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/friesendrywall/ufat-go/internal/blockdev"
	"github.com/friesendrywall/ufat-go/internal/ufat"
)

func newCRCCheckedFS(t *testing.T) (*ufat.FS, *blockdev.FileDevice) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "volume.img")
	size := int64(testSectors) * int64(testSectorSize)
	dev, err := blockdev.OpenFileDevice(path, size)
	require.NoError(t, err)
	t.Cleanup(func() { dev.Close() })

	fs, err := ufat.New(ufat.Config{
		Device:       dev,
		Sectors:      testSectors,
		SectorSize:   testSectorSize,
		TableSectors: testTableSectors,
		CheckFileCRC: true,
		Rand:         rand.New(rand.NewSource(30)),
	})
	require.NoError(t, err)
	require.NoError(t, fs.Format())
	require.NoError(t, fs.Mount())
	return fs, dev
}

func TestCRCCheckedReadDetectsCorruption(t *testing.T) {
	fs, dev := newCRCCheckedFS(t)
	payload := []byte("the payload that must not change")
	writeFile(t, fs, "guarded.bin", payload)

	// Locate the payload on the raw device and flip one of its bytes,
	// bypassing the filesystem entirely so the corruption is invisible to
	// anything but a CRC check on read.
	image := make([]byte, testSectors*testSectorSize)
	require.NoError(t, dev.ReadAt(0, image))
	idx := indexOf(image, payload)
	require.GreaterOrEqual(t, idx, 0, "payload bytes not found on device")
	var buf [1]byte
	flipAt := uint32(idx + len(payload)/2)
	require.NoError(t, dev.ReadAt(flipAt, buf[:]))
	buf[0] ^= 0xFF
	require.NoError(t, dev.WriteAt(flipAt, buf[:]))

	h, err := fs.Open("guarded.bin", "r")
	require.NoError(t, err)
	defer h.Close()
	out := make([]byte, h.Len())
	_, err = h.Read(out)
	require.Error(t, err)
	require.ErrorIs(t, err, ufat.ErrFileCRC)
}

func indexOf(haystack, needle []byte) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func TestCRCCheckedReadAcceptsUncorruptedFile(t *testing.T) {
	fs, _ := newCRCCheckedFS(t)
	data := []byte("untouched payload")
	writeFile(t, fs, "clean.bin", data)

	got := readFile(t, fs, "clean.bin")
	require.Equal(t, data, got)
}
