package ufat

import (
	"encoding/binary"

	"github.com/friesendrywall/ufat-go/internal/crc32x"
)

// table is the in-RAM working copy of the allocation table. Index i is
// sector i's descriptor, for the whole device including the reserved table
// sectors themselves.
type table struct {
	desc []descriptor
}

func newTable(sectors uint32) *table {
	return &table{desc: make([]descriptor, sectors)}
}

func (t *table) clone() *table {
	c := newTable(uint32(len(t.desc)))
	copy(c.desc, t.desc)
	return c
}

// tableByteSize returns the number of bytes the descriptor array occupies.
// The CRC is stored in its own 4 bytes ahead of this range, never
// overlapping it; see DESIGN.md for why this implementation keeps the CRC
// and descriptor array in separate, non-aliased storage.
func tableByteSize(sectors uint32) int {
	return int(sectors) * 2
}

// encode renders the table to its on-disk representation: a leading
// little-endian CRC-32 followed by the little-endian descriptor array,
// padded with zero bytes up to regionSize.
func (t *table) encode(regionSize int) []byte {
	payload := make([]byte, tableByteSize(uint32(len(t.desc))))
	for i, d := range t.desc {
		binary.LittleEndian.PutUint16(payload[i*2:], uint16(d))
	}
	crc := crc32x.Checksum(payload, crc32x.Seed)

	buf := make([]byte, regionSize)
	binary.LittleEndian.PutUint32(buf[:4], crc)
	copy(buf[4:], payload)
	return buf
}

// decodeTable parses buf into a table and returns the CRC stored on disk
// alongside the CRC recomputed from the descriptor bytes actually present;
// the caller (recovery.go) compares the two to classify the copy.
func decodeTable(buf []byte, sectors uint32) (t *table, stored, computed uint32, err error) {
	need := 4 + tableByteSize(sectors)
	if len(buf) < need {
		return nil, 0, 0, newErr("decodeTable", KindCorrupt, "short table buffer")
	}
	stored = binary.LittleEndian.Uint32(buf[:4])
	payload := buf[4:need]
	computed = crc32x.Checksum(payload, crc32x.Seed)

	t = newTable(sectors)
	for i := range t.desc {
		t.desc[i] = descriptor(binary.LittleEndian.Uint16(payload[i*2:]))
	}
	return t, stored, computed, nil
}
