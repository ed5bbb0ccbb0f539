package ufat

import (
	"math/rand"
	"time"
)

// FS is a caller-owned filesystem handle: configuration plus mutable
// runtime state — a working copy of the allocation table, a mount flag, and
// a sticky last-error slot. The zero value is not usable; construct with
// New.
//
// FS is not safe for concurrent use. Exactly one goroutine may call into a
// given FS (or any Handle opened from it) at a time.
type FS struct {
	cfg     Config
	tab     *table
	mounted bool
	lastErr error
	rng     randSource

	reserved   uint32 // first data sector index
	regionSize int    // bytes per on-disk table copy (tableSectors*sectorSize)
}

// New validates cfg and returns an unmounted FS. Call Format (once, on
// virgin media) and then Mount before any other operation.
func New(cfg Config) (*FS, error) {
	if cfg.Device == nil {
		return nil, newErr("New", KindNull, "device is nil")
	}
	if cfg.Sectors == 0 || cfg.Sectors >= MaxSectors {
		return nil, newErr("New", KindNull, "sectors out of range")
	}
	if cfg.SectorSize == 0 {
		return nil, newErr("New", KindNull, "sector size is zero")
	}
	if cfg.TableSectors == 0 {
		return nil, newErr("New", KindNull, "table sectors is zero")
	}
	regionSize := int(cfg.TableSectors) * int(cfg.SectorSize)
	if regionSize < 4+tableByteSize(cfg.Sectors) {
		return nil, newErr("New", KindNull, "table region too small for sector count")
	}
	reserved := cfg.TableSectors * TableRedundancy
	if reserved >= cfg.Sectors {
		return nil, newErr("New", KindNull, "table regions leave no data sectors")
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &FS{
		cfg:        cfg,
		rng:        rng,
		reserved:   reserved,
		regionSize: regionSize,
	}, nil
}

// sectorAddr returns the physical byte address of sector index i. Sector
// indices below fs.reserved fall inside the table regions; indices at or
// above fs.reserved are data sectors. Both use the same linear mapping:
// addressStart + i*sectorSize.
func (fs *FS) sectorAddr(i uint32) uint32 {
	return fs.cfg.AddressStart + i*fs.cfg.SectorSize
}

func (fs *FS) tableAddr(copyIndex uint32) uint32 {
	return fs.cfg.AddressStart + copyIndex*uint32(fs.regionSize)
}

// Format initializes a virgin device: every data sector becomes available
// with no link, every reserved sector becomes permanently unavailable, and
// both table copies are written with a fresh CRC. Format is idempotent:
// running it again on an already-formatted device produces byte-identical
// table copies.
func (fs *FS) Format() error {
	t := newTable(fs.cfg.Sectors)
	for i := range t.desc {
		if uint32(i) < fs.reserved {
			t.desc[i] = reservedDescriptor()
		} else {
			t.desc[i] = freeDescriptor()
		}
	}
	buf := t.encode(fs.regionSize)
	if err := fs.cfg.Device.WriteAt(fs.tableAddr(0), buf); err != nil {
		return fs.ioErr("Format", err)
	}
	if err := fs.cfg.Device.WriteAt(fs.tableAddr(1), buf); err != nil {
		return fs.ioErr("Format", err)
	}
	return nil
}

// Err returns the sticky last-error latch: once an I/O error occurs, every
// subsequent call short-circuits to it until the next successful Mount.
func (fs *FS) Err() error {
	return fs.lastErr
}

func (fs *FS) ioErr(op string, cause error) error {
	e := newErr(op, KindIO, cause.Error())
	fs.lastErr = e
	return e
}

// checkIO returns the latched I/O error if one is outstanding, and is safe
// to call before the volume is mounted (Mount's own recovery commit relies
// on this). Open, Read, Write, Exists, Info and Remove reach it through
// requireMounted, and commit calls it before writing either table copy, so
// on those paths a device that has started failing stays rejected. Format,
// Mount's table reads and Close's header write do not consult it.
func (fs *FS) checkIO(op string) error {
	if fs.lastErr != nil {
		if e, ok := fs.lastErr.(*Error); ok && e.Kind == KindIO {
			return newErr(op, KindIO, "")
		}
	}
	return nil
}

// requireMounted additionally rejects calls made before a successful
// Mount. Open, Read, Write, Exists, Info and Remove call this instead of
// checkIO directly; Close does not, and relies on commit's own check.
func (fs *FS) requireMounted(op string) error {
	if !fs.mounted {
		return newErr(op, KindUnsupported, "volume not mounted")
	}
	return fs.checkIO(op)
}
