package ufat

// tableClass is one on-disk table copy's classification at mount time.
type tableClass int

const (
	classGood tableClass = iota
	classOld
	classBad
	classIO
)

// validateTable reads one table copy and classifies it by recomputing the
// CRC over its descriptor array. It never mutates fs.tab — recovery only
// adopts a validated copy explicitly.
func (fs *FS) validateTable(copyIndex uint32) (cls tableClass, tab *table, crc uint32, err error) {
	buf := make([]byte, fs.regionSize)
	if rerr := fs.cfg.Device.ReadAt(fs.tableAddr(copyIndex), buf); rerr != nil {
		return classIO, nil, 0, fs.ioErr("validateTable", rerr)
	}
	t, stored, computed, derr := decodeTable(buf, fs.cfg.Sectors)
	if derr != nil {
		return classBad, nil, 0, nil
	}
	if stored != computed {
		return classBad, nil, 0, nil
	}
	return classGood, t, computed, nil
}

// loadTable re-reads and re-validates one table copy into fs.tab, the
// adopted working copy.
func (fs *FS) loadTable(copyIndex uint32) error {
	cls, t, _, err := fs.validateTable(copyIndex)
	if err != nil {
		return err
	}
	if cls != classGood {
		return newErr("loadTable", KindCRC, "table copy failed CRC check")
	}
	fs.tab = t
	return nil
}

// reclaimOrphans resets every sector that is neither written nor available
// back to available. An orphan is a sector allocated by a write whose close
// never landed: the table on disk still marks it unavailable, but it holds
// no data anyone can reach. It reports whether anything was repaired.
func (fs *FS) reclaimOrphans() bool {
	repaired := false
	for i := fs.reserved; i < fs.cfg.Sectors; i++ {
		d := fs.tab.desc[i]
		if !d.written() && !d.available() {
			fs.tab.desc[i] = freeDescriptor()
			repaired = true
		}
	}
	return repaired
}

// Mount inspects both on-disk table copies, classifies them, repairs a
// stale or corrupt copy from a good one, reclaims orphaned sectors left by
// an interrupted write, and — only if repair was needed — recommits before
// returning. A successful mount of an already-clean filesystem makes no
// disk writes.
func (fs *FS) Mount() error {
	fs.lastErr = nil

	class0, _, crc0, err0 := fs.validateTable(0)
	if err0 != nil {
		return err0
	}
	class1, _, crc1, err1 := fs.validateTable(1)
	if err1 != nil {
		return err1
	}
	if class0 == classGood && class1 == classGood && crc0 != crc1 {
		class1 = classOld
	}

	switch {
	case class0 == classGood && class1 == classGood:
		if err := fs.loadTable(0); err != nil {
			return err
		}
	case class0 == classBad && class1 == classGood:
		if err := fs.copyTableRegion(0, 1); err != nil {
			return err
		}
		if err := fs.loadTable(1); err != nil {
			return err
		}
	case class0 == classGood && (class1 == classOld || class1 == classBad):
		if err := fs.copyTableRegion(1, 0); err != nil {
			return err
		}
		if err := fs.loadTable(1); err != nil {
			return err
		}
	case class0 == classBad && class1 == classBad:
		return newErr("Mount", KindEmpty, "both table copies invalid")
	default:
		// validateTable only ever reports classOld for copy 1 (set above),
		// so every remaining combination, such as a reversed GOOD/OLD pair,
		// is unreachable; kept as an explicit error rather than a panic.
		return newErr("Mount", KindCorrupt, "no table action for observed classification")
	}

	if fs.reclaimOrphans() {
		if err := fs.commit(); err != nil {
			return err
		}
	}
	fs.mounted = true
	return nil
}
