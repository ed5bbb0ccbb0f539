// Package blockdev provides the block-device abstraction ufat is built on:
// fixed-size, byte-addressable reads and writes against persistent media.
//
// The surface is deliberately narrow: no erase primitive, no directory
// concept, nothing beyond "read these bytes at this address" and "write
// these bytes at this address". The on-disk layout used by package ufat
// assumes a byte-addressable target; hardware that only erases in large
// blocks must emulate byte overwrites underneath.
package blockdev

import (
	"fmt"
	"os"
)

// Device is the sole path to persistent media. Implementations are assumed
// synchronous: calls block the caller until the operation completes or
// fails, and must not call back into the filesystem.
type Device interface {
	ReadAt(addr uint32, p []byte) error
	WriteAt(addr uint32, p []byte) error
}

// FileDevice adapts an *os.File to Device, treating it as a flat span of
// byte-addressable storage. It is the reference Device used by cmd/ufattool
// and by tests that don't need fault injection.
type FileDevice struct {
	f *os.File
}

// OpenFileDevice opens (creating if needed) a file to back a FileDevice. A
// file shorter than size is extended with zero bytes to exactly size; a
// longer file keeps its length.
func OpenFileDevice(path string, size int64) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.Size() < size {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, err
		}
	}
	return &FileDevice{f: f}, nil
}

// NewFileDevice wraps an already-open file. The caller retains ownership
// and must Close it separately.
func NewFileDevice(f *os.File) *FileDevice {
	return &FileDevice{f: f}
}

func (d *FileDevice) ReadAt(addr uint32, p []byte) error {
	n, err := d.f.ReadAt(p, int64(addr))
	if err != nil {
		return err
	}
	if n != len(p) {
		return fmt.Errorf("blockdev: short read at %d: got %d want %d", addr, n, len(p))
	}
	return nil
}

func (d *FileDevice) WriteAt(addr uint32, p []byte) error {
	n, err := d.f.WriteAt(p, int64(addr))
	if err != nil {
		return err
	}
	if n != len(p) {
		return fmt.Errorf("blockdev: short write at %d: got %d want %d", addr, n, len(p))
	}
	return nil
}

// Close closes the underlying file, including one passed to NewFileDevice.
func (d *FileDevice) Close() error {
	return d.f.Close()
}

// Sync flushes the underlying file to stable storage.
func (d *FileDevice) Sync() error {
	return d.f.Sync()
}
