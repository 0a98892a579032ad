package elf32

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidFormat is returned when the image is not a 32-bit
	// little-endian i386 executable.
	ErrInvalidFormat = errors.New("invalid executable format")

	// ErrTruncatedTable is returned when the program header table extends
	// past the end of the image.
	ErrTruncatedTable = errors.New("program header table is truncated")
)

// ReadHeader decodes and validates the file header at the start of image.
func ReadHeader(image []byte) (*Header, error) {
	if len(image) < HeaderSize {
		return nil, errors.Wrapf(ErrInvalidFormat, "image is %d bytes, shorter than the %d byte header", len(image), HeaderSize)
	}
	h := new(Header)
	if err := binary.Read(bytes.NewReader(image[:HeaderSize]), binary.LittleEndian, h); err != nil {
		return nil, errors.Wrap(ErrInvalidFormat, err.Error())
	}
	if err := h.validate(); err != nil {
		return nil, err
	}
	if h.Phnum == 0 {
		return h, nil
	}
	if int64(h.Phoff) > int64(len(image)) ||
		int64(h.Phoff)+int64(h.Phnum)*int64(h.Phentsize) > int64(len(image)) {
		return nil, errors.Wrapf(ErrTruncatedTable, "table at 0x%x with %d entries, image is %d bytes",
			h.Phoff, h.Phnum, len(image))
	}
	return h, nil
}

func (h *Header) validate() error {
	if string(h.Ident[:4]) != identMagic {
		return errors.Wrapf(ErrInvalidFormat, "bad magic %q", h.Ident[:4])
	}
	if c := h.Ident[identClass]; c != ClassELF32 {
		return errors.Wrapf(ErrInvalidFormat, "ELF has class %d, expected ELFCLASS32", c)
	}
	if d := h.Ident[identData]; d != DataLSB {
		return errors.Wrapf(ErrInvalidFormat, "ELF has data %d, expected ELFDATA2LSB", d)
	}
	if v := h.Ident[identVersion]; v != VersionCur {
		return errors.Wrapf(ErrInvalidFormat, "ELF has ident version %d, expected EV_CURRENT", v)
	}
	if h.Version != VersionCur {
		return errors.Wrapf(ErrInvalidFormat, "ELF has version %d, expected EV_CURRENT", h.Version)
	}
	if h.Type != TypeExec {
		return errors.Wrapf(ErrInvalidFormat, "ELF has type %d, expected ET_EXEC", h.Type)
	}
	if h.Machine != MachineI386 {
		return errors.Wrapf(ErrInvalidFormat, "ELF has machine %d, expected EM_386", h.Machine)
	}
	if h.Phnum != 0 && h.Phentsize != ProgSize {
		return errors.Wrapf(ErrInvalidFormat, "program header size is %d, expected %d", h.Phentsize, ProgSize)
	}
	return nil
}

// A ProgIter walks the program header table of an image in file order. It
// holds no state besides its position, so a Reset iterator yields the same
// sequence again.
type ProgIter struct {
	h     *Header
	image []byte
	next  int
	prog  Prog
	err   error
}

// Progs returns an iterator over the program header table.
func (h *Header) Progs(image []byte) *ProgIter {
	return &ProgIter{h: h, image: image}
}

// Next decodes the next entry. It returns false at the end of the table or
// on error.
func (it *ProgIter) Next() bool {
	if it.err != nil || it.next >= int(it.h.Phnum) {
		return false
	}
	i := it.next
	start := int64(it.h.Phoff) + int64(i)*int64(it.h.Phentsize)
	end := start + ProgSize
	if end > int64(len(it.image)) {
		it.err = errors.Wrapf(ErrTruncatedTable, "entry %d at 0x%x extends past image end 0x%x",
			i, start, len(it.image))
		return false
	}
	var p Prog
	if err := binary.Read(bytes.NewReader(it.image[start:end]), binary.LittleEndian, &p); err != nil {
		it.err = errors.Wrapf(ErrTruncatedTable, "entry %d: %v", i, err)
		return false
	}
	it.prog = p
	it.next++
	return true
}

// Prog returns the entry decoded by the last call to Next.
func (it *ProgIter) Prog() Prog { return it.prog }

// Index returns the table index of the entry returned by Prog.
func (it *ProgIter) Index() int { return it.next - 1 }

// Err returns the error that stopped iteration, if any.
func (it *ProgIter) Err() error { return it.err }

// Reset rewinds the iterator to the first entry.
func (it *ProgIter) Reset() {
	it.next = 0
	it.prog = Prog{}
	it.err = nil
}

// ReadProgs decodes the whole program header table.
func (h *Header) ReadProgs(image []byte) ([]Prog, error) {
	progs := make([]Prog, 0, h.Phnum)
	it := h.Progs(image)
	for it.Next() {
		progs = append(progs, it.Prog())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return progs, nil
}
