package elf32

import (
	"bufio"
	"strconv"
)

const hexDigits = "0123456789abcdef"

// writeHexStr writes b as hex bytes followed by its printable form in quotes.
func writeHexStr(w *bufio.Writer, b []byte) {
	for _, c := range b {
		w.WriteByte(hexDigits[c>>4])
		w.WriteByte(hexDigits[c&15])
		w.WriteByte(' ')
	}
	w.WriteString(` "`)
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			c = '.'
		}
		w.WriteByte(c)
	}
	w.WriteByte('"')
}

func writeInt(w *bufio.Writer, v uint32, sz uint) {
	w.WriteString("0x")
	for i := sz * 2; i > 0; i-- {
		w.WriteByte(hexDigits[(v>>((i-1)*4))&15])
	}
}

func className(c byte) string {
	switch c {
	case 1:
		return "ELF32"
	case 2:
		return "ELF64"
	default:
		return "unknown"
	}
}

func dataName(d byte) string {
	switch d {
	case 1:
		return "little endian"
	case 2:
		return "big endian"
	default:
		return "unknown"
	}
}

func typeName(t uint16) string {
	switch t {
	case 1:
		return "REL"
	case 2:
		return "EXEC"
	case 3:
		return "DYN"
	case 4:
		return "CORE"
	default:
		return "unknown"
	}
}

func machineName(m uint16) string {
	switch m {
	case 3:
		return "Intel 80386"
	case 62:
		return "x86-64"
	default:
		return "unknown"
	}
}

type field struct {
	name string
	data interface{}
	hint string
}

func dumpFields(w *bufio.Writer, prefix string, fields []field) {
	var maxName int
	for _, f := range fields {
		if len(f.name) > maxName {
			maxName = len(f.name)
		}
	}
	spaces := make([]byte, maxName+2)
	for i := range spaces {
		spaces[i] = ' '
	}
	for _, f := range fields {
		w.WriteString(prefix)
		w.WriteString(f.name)
		w.WriteByte(':')
		w.Write(spaces[:maxName+2-len(f.name)])
		switch v := f.data.(type) {
		case []byte:
			writeHexStr(w, v)
		case uint8:
			writeInt(w, uint32(v), 1)
		case uint16:
			writeInt(w, uint32(v), 2)
		case uint32:
			writeInt(w, v, 4)
		default:
			panic("unknown field type for " + f.name)
		}
		if f.hint != "" {
			w.WriteString("  ")
			w.WriteString(f.hint)
		}
		w.WriteByte('\n')
	}
}

// DumpText writes the file header, in text format, to the writer.
func (h *Header) DumpText(w *bufio.Writer, prefix string) {
	dumpFields(w, prefix, []field{
		{"Magic", h.Ident[:4], ""},
		{"Class", h.Ident[identClass], className(h.Ident[identClass])},
		{"Data", h.Ident[identData], dataName(h.Ident[identData])},
		{"Type", h.Type, typeName(h.Type)},
		{"Machine", h.Machine, machineName(h.Machine)},
		{"Version", h.Version, ""},
		{"Entry", h.Entry, ""},
		{"Program Header Offset", h.Phoff, ""},
		{"Section Header Offset", h.Shoff, ""},
		{"Flags", h.Flags, ""},
		{"Header Size", h.Ehsize, ""},
		{"Program Header Size", h.Phentsize, ""},
		{"Num Program Headers", h.Phnum, strconv.Itoa(int(h.Phnum)) + " entries"},
		{"Section Header Size", h.Shentsize, ""},
		{"Num Section Headers", h.Shnum, ""},
		{"Section Name Index", h.Shstrndx, ""},
	})
}
