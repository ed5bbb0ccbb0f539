package ufat

import "fmt"

// Kind is the stable error taxonomy. Values are part of the public API:
// callers match on Kind, not on error string text.
type Kind int

const (
	KindOK Kind = iota
	KindIO
	KindFileNotFound
	KindCRC
	KindCorrupt
	KindEmpty
	KindFull
	KindUnsupported
	KindFileCRC
	KindNull
	KindNameLen
)

// Error wraps a Kind with enough context to be useful in logs: a small
// struct carrying a stable machine code plus a human message.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("ufat: %s: %s", e.Op, e.Kind.String())
	}
	return fmt.Sprintf("ufat: %s: %s: %s", e.Op, e.Kind.String(), e.Msg)
}

func newErr(op string, kind Kind, msg string) *Error {
	return &Error{Op: op, Kind: kind, Msg: msg}
}

// String renders the short label used in log lines and Error().
func (k Kind) String() string {
	switch k {
	case KindOK:
		return "OK"
	case KindIO:
		return "IO"
	case KindFileNotFound:
		return "FILE NOT FOUND"
	case KindCRC:
		return "CRC"
	case KindCorrupt:
		return "CORRUPT"
	case KindEmpty:
		return "EMPTY"
	case KindFull:
		return "FULL"
	case KindUnsupported:
		return "UNSUPPORTED"
	case KindFileCRC:
		return "FILE CRC"
	case KindNull:
		return "NULL"
	case KindNameLen:
		return "NAME LEN"
	default:
		return fmt.Sprintf("%d", int(k))
	}
}

// Sentinel errors for errors.Is-style matching, one per Kind that callers
// are expected to branch on directly.
var (
	ErrIO           = &Error{Kind: KindIO}
	ErrFileNotFound = &Error{Kind: KindFileNotFound}
	ErrCRC          = &Error{Kind: KindCRC}
	ErrCorrupt      = &Error{Kind: KindCorrupt}
	ErrEmpty        = &Error{Kind: KindEmpty}
	ErrFull         = &Error{Kind: KindFull}
	ErrUnsupported  = &Error{Kind: KindUnsupported}
	ErrFileCRC      = &Error{Kind: KindFileCRC}
	ErrNameLen      = &Error{Kind: KindNameLen}
)

// Is makes errors.Is(err, ufat.ErrFull) etc. work by comparing Kind only,
// so a caller doesn't need the exact *Error pointer created deep inside the
// engine.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
