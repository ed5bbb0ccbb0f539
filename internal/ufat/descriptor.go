package ufat

// descriptor is one sector's metadata in the allocation table: 12 bits of
// chain link, three flag bits, one unused bit. It is packed and unpacked
// explicitly with shifts and masks rather than relying on struct layout,
// the same discipline used elsewhere in this module for on-disk formats.
//
// Bit layout, LSB first: next[0:12) sof[12] available[13] written[14]
// unused[15].
type descriptor uint16

const (
	bitSOF       = 12
	bitAvailable = 13
	bitWritten   = 14
)

func newDescriptor(next uint16, sof, available, written bool) descriptor {
	d := descriptor(next & linkEnd)
	if sof {
		d |= 1 << bitSOF
	}
	if available {
		d |= 1 << bitAvailable
	}
	if written {
		d |= 1 << bitWritten
	}
	return d
}

func (d descriptor) next() uint16    { return uint16(d) & linkEnd }
func (d descriptor) sof() bool       { return d&(1<<bitSOF) != 0 }
func (d descriptor) available() bool { return d&(1<<bitAvailable) != 0 }
func (d descriptor) written() bool   { return d&(1<<bitWritten) != 0 }

func (d descriptor) withNext(next uint16) descriptor {
	return (d &^ descriptor(linkEnd)) | descriptor(next&linkEnd)
}

func (d descriptor) withSOF(v bool) descriptor       { return setBit(d, bitSOF, v) }
func (d descriptor) withAvailable(v bool) descriptor { return setBit(d, bitAvailable, v) }
func (d descriptor) withWritten(v bool) descriptor   { return setBit(d, bitWritten, v) }

func setBit(d descriptor, bit uint, v bool) descriptor {
	if v {
		return d | (1 << bit)
	}
	return d &^ (1 << bit)
}

// freeDescriptor is the state format() assigns to every non-reserved
// sector: available, no link yet, not sof, not written.
func freeDescriptor() descriptor {
	return newDescriptor(linkEnd, false, true, false)
}

// reservedDescriptor is the state format() assigns to sectors inside the
// table regions themselves: never available, never sof, never linked from
// another sector.
func reservedDescriptor() descriptor {
	return newDescriptor(0, false, false, false)
}
