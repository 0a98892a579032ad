package load

import (
	"errors"
	"io/fs"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"moria.us/elfload/elf32"
)

func TestWrapError(t *testing.T) {
	inner := NewError(SegmentMapFailure, fs.ErrPermission)
	err := wrapError(wrapErrorSegment(inner, 2), "/bin/prog")
	assert.Equal(t, "/bin/prog: segment 2: cannot map segment: permission denied", err.Error())
	assert.Equal(t, SegmentMapFailure, KindOf(err))
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestKindOfFormatErrors(t *testing.T) {
	err := wrapError(pkgerrors.Wrap(elf32.ErrInvalidFormat, "bad magic"), "x")
	assert.Equal(t, InvalidFormat, KindOf(err))
	assert.True(t, errors.Is(err, elf32.ErrInvalidFormat))

	err = wrapError(pkgerrors.Wrap(elf32.ErrTruncatedTable, "entry 3"), "x")
	assert.Equal(t, TruncatedTable, KindOf(err))

	assert.Equal(t, TruncatedTable, KindOf(elf32.ErrTruncatedTable))
	assert.Equal(t, KindUnknown, KindOf(errors.New("other")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "cannot open file", FileOpenFailure.String())
	assert.Equal(t, "truncated program header table", TruncatedTable.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
