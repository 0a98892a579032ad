package elf32

import (
	"encoding/binary"
	"fmt"
	"io"
)

// A Segment is a program header together with the file bytes it covers.
type Segment struct {
	Prog
	Data []byte // contents at Prog.Off
}

// An Executable is a minimal ELF executable image: a header, a program header
// table directly after it, and segment contents at their file offsets.
type Executable struct {
	Entry    uint32
	Segments []Segment
}

func (e *Executable) size() uint32 {
	n := uint32(HeaderSize + ProgSize*len(e.Segments))
	for _, s := range e.Segments {
		if end := s.Off + uint32(len(s.Data)); end > n {
			n = end
		}
		if end := s.Off + s.Filesz; end > n {
			n = end
		}
	}
	return n
}

// Bytes lays out the executable image. A segment at offset 0 may leave room
// for the headers with zeroes. Bytes panics if segment contents other than
// zeroes fall under the headers.
func (e *Executable) Bytes() []byte {
	b := make([]byte, e.size())
	for _, s := range e.Segments {
		copy(b[s.Off:], s.Data)
	}
	hdrEnd := HeaderSize + ProgSize*len(e.Segments)
	for i, c := range b[:hdrEnd] {
		if c != 0 {
			panic(fmt.Sprintf("elf32: segment contents at 0x%x overlap headers ending at 0x%x", i, hdrEnd))
		}
	}

	le := binary.LittleEndian
	copy(b, identMagic)
	b[identClass] = ClassELF32
	b[identData] = DataLSB
	b[identVersion] = VersionCur
	le.PutUint16(b[0x10:], TypeExec)                // e_type
	le.PutUint16(b[0x12:], MachineI386)             // e_machine
	le.PutUint32(b[0x14:], VersionCur)              // e_version
	le.PutUint32(b[0x18:], e.Entry)                 // e_entry
	le.PutUint32(b[0x1c:], HeaderSize)              // e_phoff
	le.PutUint16(b[0x28:], HeaderSize)              // e_ehsize
	le.PutUint16(b[0x2a:], ProgSize)                // e_phentsize
	le.PutUint16(b[0x2c:], uint16(len(e.Segments))) // e_phnum
	for i, s := range e.Segments {
		p := b[HeaderSize+i*ProgSize:]
		le.PutUint32(p[0x00:], uint32(s.Type))
		le.PutUint32(p[0x04:], s.Off)
		le.PutUint32(p[0x08:], s.Vaddr)
		le.PutUint32(p[0x0c:], s.Paddr)
		le.PutUint32(p[0x10:], s.Filesz)
		le.PutUint32(p[0x14:], s.Memsz)
		le.PutUint32(p[0x18:], uint32(s.Flags))
		le.PutUint32(p[0x1c:], s.Align)
	}
	return b
}

// WriteTo writes the executable image to a writer.
func (e *Executable) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(e.Bytes())
	return int64(n), err
}
