package ufat_test

import (
	"encoding/binary"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/friesendrywall/ufat-go/internal/blockdev"
	"github.com/friesendrywall/ufat-go/internal/ufat"
)

// TestCounterIsMonotonicUnderPowerCycling repeatedly reads an integer from a
// dedicated file, increments it, writes it back, and closes, while write
// faults are injected at random. Every successfully read value must be
// greater than or equal to the last one observed: a crash may lose the most
// recent increment, but it must never resurrect an older value or corrupt
// the volume into unreadability.
func TestCounterIsMonotonicUnderPowerCycling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.img")
	size := int64(testSectors) * int64(testSectorSize)
	file, err := blockdev.OpenFileDevice(path, size)
	require.NoError(t, err)
	defer file.Close()

	rng := rand.New(rand.NewSource(7))
	fault := blockdev.NewFaultDevice(file, rng)

	fs, err := ufat.New(ufat.Config{
		Device:       fault,
		Sectors:      testSectors,
		SectorSize:   testSectorSize,
		TableSectors: testTableSectors,
		Rand:         rand.New(rand.NewSource(8)),
	})
	require.NoError(t, err)
	require.NoError(t, fs.Format())
	require.NoError(t, fs.Mount())

	const cycles = 200
	last := uint32(0)

	for i := 0; i < cycles; i++ {
		if rng.Intn(4) == 0 {
			fault.Arm(blockdev.FaultWrite, uint32(rng.Intn(6)))
		}

		value, readErr := readCounter(fs)
		_, writeErr := writeCounter(fs, value+1)

		fault.Disarm()
		mountErr := fs.Mount()
		require.NoError(t, mountErr, "a torn write must never make the volume unmountable")

		if readErr != nil || writeErr != nil {
			// This cycle may have been interrupted; skip the assertion here
			// and let the next iteration read whatever actually landed.
			continue
		}

		got, err := readCounter(fs)
		require.NoError(t, err)
		require.GreaterOrEqual(t, got, last)
		last = got
	}
}

func readCounter(fs *ufat.FS) (uint32, error) {
	n, err := fs.Exists("counter.bin")
	if err != nil {
		return 0, nil
	}
	if n < 4 {
		return 0, nil
	}
	h, err := fs.Open("counter.bin", "r")
	if err != nil {
		return 0, err
	}
	defer h.Close()
	buf := make([]byte, 4)
	if _, err := h.Read(buf); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

func writeCounter(fs *ufat.FS, value uint32) (bool, error) {
	h, err := fs.Open("counter.bin", "w")
	if err != nil {
		return false, err
	}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value)
	if _, err := h.Write(buf); err != nil {
		_ = h.Close()
		return false, err
	}
	if err := h.Close(); err != nil {
		return false, err
	}
	return true, nil
}
