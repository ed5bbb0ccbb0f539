package ufat

import "github.com/friesendrywall/ufat-go/internal/crc32x"

// Write appends p to the handle, allocating new sectors as the current one
// fills and linking them through the in-RAM table's next field. Every
// chunk is written to the device immediately and folded into the running
// payload CRC; none of this is persisted to the on-disk table until Close
// commits.
//
// On allocator exhaustion or device I/O failure, Write latches the handle
// into the errored state: the returned error's Kind is ErrFull or ErrIO,
// and every subsequent Write on this handle is a no-op returning the same
// error. Close then rolls the tentative chain back.
func (h *Handle) Write(p []byte) (int, error) {
	if h.errored {
		return 0, newErr("Write", h.errKind, "handle already errored")
	}
	if err := h.fs.requireMounted("Write"); err != nil {
		return 0, err
	}

	if h.currentSector == noSector {
		sector, err := h.fs.allocate()
		if err != nil {
			return h.latch(err)
		}
		h.fs.tab.desc[sector] = h.fs.tab.desc[sector].withSOF(true)
		h.startSector = sector
		h.currentSector = sector
		h.posInSector = headerSize
		h.header.CRC = crc32x.Seed
	}

	remaining := p
	written := 0
	for len(remaining) > 0 {
		writeable := int(h.fs.cfg.SectorSize) - int(h.posInSector)
		if writeable == 0 {
			next, err := h.fs.allocate()
			if err != nil {
				return h.latch(err)
			}
			h.fs.tab.desc[h.currentSector] = h.fs.tab.desc[h.currentSector].withNext(uint16(next))
			h.fs.tab.desc[next] = h.fs.tab.desc[next].withSOF(false)
			h.currentSector = next
			h.posInSector = 0
			writeable = int(h.fs.cfg.SectorSize)
		}

		n := len(remaining)
		if n > writeable {
			n = writeable
		}
		addr := h.fs.sectorAddr(h.currentSector) + h.posInSector
		if err := h.fs.cfg.Device.WriteAt(addr, remaining[:n]); err != nil {
			return h.latch(h.fs.ioErr("Write", err))
		}
		h.header.CRC = crc32x.Checksum(remaining[:n], h.header.CRC)
		h.position += uint32(n)
		h.posInSector += uint32(n)
		remaining = remaining[n:]
		written += n
	}
	return written, nil
}

// latch records the first error on a write handle so Close can roll back
// the tentative chain, and returns it as the Write result.
func (h *Handle) latch(err error) (int, error) {
	h.errored = true
	if e, ok := err.(*Error); ok {
		h.errKind = e.Kind
	} else {
		h.errKind = KindIO
	}
	return 0, err
}
