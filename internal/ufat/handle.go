package ufat

import "github.com/friesendrywall/ufat-go/internal/crc32x"

const (
	flagRead = 1 << iota
	flagWrite
)

// noSector is the sentinel for "no sector assigned yet" in a write handle,
// and for "no prior version to unlink" in oldVersion.
const noSector = ^uint32(0)

// Handle is a transient, caller-owned open-file cursor. It is not shared:
// create one per fs.Open call, and don't call methods on it from more than
// one goroutine at a time.
type Handle struct {
	fs    *FS
	flags int

	startSector   uint32
	currentSector uint32
	position      uint32
	posInSector   uint32
	header        Header
	oldVersion    uint32 // noSector if no prior version to unlink on commit

	errored bool
	errKind Kind

	checkCRC bool
	readCRC  uint32
}

// Open resolves name to a file and returns a cursor over it. mode is
// "r"/"rb" for read or "w"/"wb" for write; anything else fails with
// ErrUnsupported. Opening an existing name for write creates a new version
// alongside the old one; the old version is only unlinked when Close
// commits successfully, so a crash mid-write never loses the prior
// contents.
func (fs *FS) Open(name, mode string) (*Handle, error) {
	if err := fs.requireMounted("Open"); err != nil {
		return nil, err
	}

	var flags int
	switch mode {
	case "r", "rb":
		flags = flagRead
	case "w", "wb":
		flags = flagWrite
	default:
		return nil, newErr("Open", KindUnsupported, "mode "+mode)
	}

	if flags == flagWrite && len(name) > NameLen {
		return nil, newErr("Open", KindNameLen, name)
	}

	sector, hdr, found, err := fs.locate(name)
	if err != nil {
		return nil, err
	}

	if flags == flagRead {
		if !found {
			return nil, newErr("Open", KindFileNotFound, name)
		}
		return &Handle{
			fs:            fs,
			flags:         flags,
			startSector:   sector,
			currentSector: sector,
			posInSector:   headerSize,
			header:        hdr,
			oldVersion:    noSector,
			checkCRC:      fs.cfg.CheckFileCRC,
			readCRC:       crc32x.Seed,
		}, nil
	}

	h := &Handle{
		fs:            fs,
		flags:         flags,
		startSector:   noSector,
		currentSector: noSector,
		oldVersion:    noSector,
	}
	h.header.Name = encodeName(name)
	if found {
		h.oldVersion = sector
	}
	return h, nil
}

// Len returns the header's declared payload length.
func (h *Handle) Len() int { return int(h.header.Len) }

// Errored reports whether a write handle has latched an error.
func (h *Handle) Errored() bool { return h.errored }
