package ufat

import (
	"bytes"
	"encoding/binary"
)

// encodeName pads name into a fixed NameLen byte array, truncating if
// necessary.
func encodeName(name string) [NameLen]byte {
	var out [NameLen]byte
	copy(out[:], name)
	return out
}

func decodeHeader(buf []byte) Header {
	var h Header
	h.CRC = binary.LittleEndian.Uint32(buf[0:4])
	h.Timestamp = binary.LittleEndian.Uint32(buf[4:8])
	h.Len = binary.LittleEndian.Uint16(buf[8:10])
	copy(h.Name[:], buf[10:10+NameLen])
	return h
}

func encodeHeader(h Header) []byte {
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.CRC)
	binary.LittleEndian.PutUint32(buf[4:8], h.Timestamp)
	binary.LittleEndian.PutUint16(buf[8:10], h.Len)
	copy(buf[10:10+NameLen], h.Name[:])
	return buf
}

// locate scans sectors flagged sof for one whose stored name matches name,
// comparing the full fixed-width name field rather than just the visible
// prefix: a short search name matches a stored name only if the
// zero-padding also lines up. Returns the sof sector index and decoded
// header on a hit.
func (fs *FS) locate(name string) (sector uint32, hdr Header, found bool, err error) {
	target := encodeName(name)
	buf := make([]byte, headerSize)
	for i := fs.reserved; i < fs.cfg.Sectors; i++ {
		if !fs.tab.desc[i].sof() {
			continue
		}
		if rerr := fs.cfg.Device.ReadAt(fs.sectorAddr(i), buf); rerr != nil {
			return 0, Header{}, false, fs.ioErr("locate", rerr)
		}
		h := decodeHeader(buf)
		if bytes.Equal(h.Name[:], target[:]) {
			return i, h, true, nil
		}
	}
	return 0, Header{}, false, nil
}
