package load

import (
	stderrors "errors"
	"fmt"

	"moria.us/elfload/elf32"
)

// A Kind classifies a load failure. Every kind is fatal.
type Kind int

const (
	KindUnknown Kind = iota
	MissingArgument
	FileOpenFailure
	FileSizeQueryFailure
	WholeFileMapFailure
	InvalidFormat
	TruncatedTable
	SegmentMapFailure
	LaunchFailure
)

var kindNames = [...]string{
	KindUnknown:          "unknown failure",
	MissingArgument:      "missing argument",
	FileOpenFailure:      "cannot open file",
	FileSizeQueryFailure: "cannot query file size",
	WholeFileMapFailure:  "cannot map file",
	InvalidFormat:        "invalid format",
	TruncatedTable:       "truncated program header table",
	SegmentMapFailure:    "cannot map segment",
	LaunchFailure:        "cannot launch",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// An Error is a load failure of a given kind, wrapped with a location for
// context.
type Error struct {
	Kind     Kind
	location string
	inner    error
}

func (e *Error) Error() string {
	if e.location == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.inner)
	}
	return fmt.Sprintf("%s: %v: %v", e.location, e.Kind, e.inner)
}

func (e *Error) Unwrap() error {
	return e.inner
}

// NewError returns an error of the given kind.
func NewError(k Kind, e error) error {
	return &Error{Kind: k, inner: e}
}

// wrapError returns an error wrapped with a location for context. The kind of
// an existing *Error is kept.
func wrapError(e error, loc string) error {
	if we, ok := e.(*Error); ok {
		if we.location != "" {
			loc = loc + ": " + we.location
		}
		return &Error{
			Kind:     we.Kind,
			location: loc,
			inner:    we.inner,
		}
	}
	return &Error{
		Kind:     classify(e),
		location: loc,
		inner:    e,
	}
}

// wrapErrorf returns an error wrapped with a location for context.
func wrapErrorf(e error, f string, a ...interface{}) error {
	return wrapError(e, fmt.Sprintf(f, a...))
}

func wrapErrorSegment(e error, i int) error {
	return wrapErrorf(e, "segment %d", i)
}

func classify(e error) Kind {
	switch {
	case stderrors.Is(e, elf32.ErrInvalidFormat):
		return InvalidFormat
	case stderrors.Is(e, elf32.ErrTruncatedTable):
		return TruncatedTable
	default:
		return KindUnknown
	}
}

// KindOf returns the kind of a load failure, or KindUnknown.
func KindOf(e error) Kind {
	var le *Error
	if stderrors.As(e, &le) {
		return le.Kind
	}
	return classify(e)
}
