package ufat

import "time"

// Close finalizes a handle. A read handle's Close is a no-op: nothing about
// an open read ever touches the table.
//
// An errored write handle rolls back: every sector allocated for the
// tentative chain is freed again, and neither the table nor the device is
// otherwise touched. The handle's error is preserved as the Close error so
// callers who only check Close still see it.
//
// A clean write handle finalizes its header (length, timestamp, payload
// CRC) into the start-of-file sector, marks every sector in the new chain
// written, frees the chain it superseded (if this was an overwrite), and
// commits the table. A crash at any point up to the final table write
// leaves either the old file or nothing half-written visible at next
// mount — never a half-written new file marked readable.
func (h *Handle) Close() error {
	if h.flags == flagRead {
		return nil
	}

	if h.errored {
		if h.startSector != noSector {
			_ = h.fs.freeChain(h.startSector)
		}
		return newErr("Close", h.errKind, "handle errored before close")
	}

	if h.startSector != noSector {
		h.header.Len = uint16(h.position)
		h.header.Timestamp = uint32(time.Now().Unix())

		buf := encodeHeader(h.header)
		if err := h.fs.cfg.Device.WriteAt(h.fs.sectorAddr(h.startSector), buf); err != nil {
			return h.fs.ioErr("Close", err)
		}
		if err := h.fs.markChainWritten(h.startSector); err != nil {
			return err
		}
	}

	if h.oldVersion != noSector {
		if err := h.fs.freeChain(h.oldVersion); err != nil {
			return err
		}
	}

	return h.fs.commit()
}
