package ufat

// FileEntry describes one stored file as reported by Info.
type FileEntry struct {
	Name      string
	Len       int
	Timestamp uint32
}

// Info summarizes the mounted volume's capacity and contents.
type Info struct {
	Capacity  uint32 // usable bytes, excluding the reserved table region
	BytesUsed uint32
	BytesFree uint32
	Files     []FileEntry
}

// Exists reports name's declared length, or 0 if no such file exists. A
// missing file is not an error, matching ufat_exists: only an I/O failure
// while scanning for it is.
func (fs *FS) Exists(name string) (int, error) {
	if err := fs.requireMounted("Exists"); err != nil {
		return 0, err
	}
	_, hdr, found, err := fs.locate(name)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return int(hdr.Len), nil
}

// Info walks every start-of-file sector and reports capacity, usage, and a
// listing of stored files. It does not allocate or mutate anything.
func (fs *FS) Info() (Info, error) {
	if err := fs.requireMounted("Info"); err != nil {
		return Info{}, err
	}

	info := Info{
		Capacity: (fs.cfg.Sectors - fs.reserved) * fs.cfg.SectorSize,
	}

	buf := make([]byte, headerSize)
	for i := fs.reserved; i < fs.cfg.Sectors; i++ {
		d := fs.tab.desc[i]
		if d.available() {
			info.BytesFree += fs.cfg.SectorSize
			continue
		}
		if !d.sof() {
			continue
		}
		if err := fs.cfg.Device.ReadAt(fs.sectorAddr(i), buf); err != nil {
			return Info{}, fs.ioErr("Info", err)
		}
		h := decodeHeader(buf)
		info.Files = append(info.Files, FileEntry{
			Name:      trimName(h.Name),
			Len:       int(h.Len),
			Timestamp: h.Timestamp,
		})
		info.BytesUsed += uint32(h.Len)
	}
	return info, nil
}

// trimName strips the zero padding encodeName adds.
func trimName(b [NameLen]byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}
