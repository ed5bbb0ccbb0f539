package ufat

import "github.com/friesendrywall/ufat-go/internal/crc32x"

// Read follows the chain from the current cursor, bounded by both the
// sector boundary and the header's declared length — bytes in the final
// sector past that length are never returned. When CheckFileCRC is set on
// the owning FS, the running CRC is updated on every chunk; the call that
// reaches the declared length compares it against the header CRC and
// returns ErrFileCRC on mismatch.
func (h *Handle) Read(p []byte) (int, error) {
	if err := h.fs.requireMounted("Read"); err != nil {
		return 0, err
	}

	remaining := p
	read := 0
	for len(remaining) > 0 {
		readable := int(h.fs.cfg.SectorSize) - int(h.posInSector)
		fileRemaining := int(h.header.Len) - int(h.position)
		if fileRemaining == 0 {
			break
		}
		if readable == 0 {
			next := h.fs.tab.desc[h.currentSector].next()
			if next == linkEnd {
				break
			}
			h.posInSector = 0
			h.currentSector = uint32(next)
			readable = int(h.fs.cfg.SectorSize)
		}

		n := len(remaining)
		if n > readable {
			n = readable
		}
		if n > fileRemaining {
			n = fileRemaining
		}
		addr := h.fs.sectorAddr(h.currentSector) + h.posInSector
		if err := h.fs.cfg.Device.ReadAt(addr, remaining[:n]); err != nil {
			return read, h.fs.ioErr("Read", err)
		}
		if h.checkCRC {
			h.readCRC = crc32x.Checksum(remaining[:n], h.readCRC)
		}
		h.position += uint32(n)
		h.posInSector += uint32(n)
		remaining = remaining[n:]
		read += n
	}

	if h.checkCRC && int(h.position) == int(h.header.Len) {
		if h.readCRC != h.header.CRC {
			return read, newErr("Read", KindFileCRC, "payload CRC mismatch")
		}
	}
	return read, nil
}
