package ufat

// commit recomputes the working table's CRC and writes both on-disk copies
// in order, copy 0 first then copy 1. A crash between the two writes
// leaves copy 1 stale but copy 0 current; Mount's recovery logic always
// prefers a good, current copy over a good, stale one, so this ordering is
// what makes the whole filesystem crash-safe.
func (fs *FS) commit() error {
	if err := fs.checkIO("commit"); err != nil {
		return err
	}
	buf := fs.tab.encode(fs.regionSize)
	if err := fs.cfg.Device.WriteAt(fs.tableAddr(0), buf); err != nil {
		return fs.ioErr("commit", err)
	}
	if err := fs.cfg.Device.WriteAt(fs.tableAddr(1), buf); err != nil {
		return fs.ioErr("commit", err)
	}
	return nil
}

// copyTableRegion reads one on-disk table copy and writes it verbatim over
// the other, used by recovery to repair a bad or stale copy from a good
// one.
func (fs *FS) copyTableRegion(toIndex, fromIndex uint32) error {
	buf := make([]byte, fs.regionSize)
	if err := fs.cfg.Device.ReadAt(fs.tableAddr(fromIndex), buf); err != nil {
		return fs.ioErr("copyTableRegion", err)
	}
	if err := fs.cfg.Device.WriteAt(fs.tableAddr(toIndex), buf); err != nil {
		return fs.ioErr("copyTableRegion", err)
	}
	return nil
}
