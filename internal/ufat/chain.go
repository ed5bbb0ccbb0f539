package ufat

// walkChain visits every sector of the chain starting at start, in link
// order, calling visit for each one (including start) before following its
// next link. It stops cleanly at the end-of-chain sentinel and fails with
// ErrCorrupt if a link points outside the valid data-sector range, or into
// the reserved table region, or if the chain does not terminate within one
// hop per sector on the device.
func (fs *FS) walkChain(start uint32, visit func(sector uint32)) error {
	limit := fs.cfg.Sectors
	current := start
	for {
		next := fs.tab.desc[current].next()
		visit(current)
		if next == linkEnd {
			return nil
		}
		if uint32(next) < fs.reserved || uint32(next) >= fs.cfg.Sectors {
			return newErr("walkChain", KindCorrupt, "next sector out of range")
		}
		current = uint32(next)
		limit--
		if limit == 0 {
			return newErr("walkChain", KindCorrupt, "chain did not terminate")
		}
	}
}

// freeChain resets every descriptor in the chain to the free state: the
// shared tail of close's rollback path, close's old-version unlink, and
// remove.
func (fs *FS) freeChain(start uint32) error {
	return fs.walkChain(start, func(s uint32) {
		fs.tab.desc[s] = freeDescriptor()
	})
}

// markChainWritten sets the written bit on every descriptor in the chain,
// the durability-defining step of a clean close.
func (fs *FS) markChainWritten(start uint32) error {
	return fs.walkChain(start, func(s uint32) {
		fs.tab.desc[s] = fs.tab.desc[s].withWritten(true)
	})
}
