package ufat_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/friesendrywall/ufat-go/internal/ufat"
)

func TestFillToFullThenFree(t *testing.T) {
	fs, _ := newTestFS(t, 20)

	payload := make([]byte, testSectorSize)
	written := 0
	var lastErr error
	for i := 0; ; i++ {
		name := fmt.Sprintf("f%03d.bin", i)
		h, err := fs.Open(name, "w")
		require.NoError(t, err)
		_, werr := h.Write(payload)
		cerr := h.Close()
		if werr != nil {
			lastErr = werr
			_ = cerr
			break
		}
		require.NoError(t, cerr)
		written++
	}

	require.Error(t, lastErr)
	require.ErrorIs(t, lastErr, ufat.ErrFull)

	info, err := fs.Info()
	require.NoError(t, err)
	require.Equal(t, written, len(info.Files))

	for i := 0; i < written; i++ {
		require.NoError(t, fs.Remove(fmt.Sprintf("f%03d.bin", i)))
	}

	info, err = fs.Info()
	require.NoError(t, err)
	require.Empty(t, info.Files)
	require.Equal(t, info.Capacity, info.BytesFree)
}
