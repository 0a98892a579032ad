// Package elf32 provides an interface to 32-bit little-endian ELF executable
// headers and program header tables.
package elf32

// Sizes of the fixed-layout records.
const (
	HeaderSize = 52
	ProgSize   = 32
)

// ELF identification.
const (
	ClassELF32   = 1 // EI_CLASS: ELFCLASS32
	DataLSB      = 1 // EI_DATA: ELFDATA2LSB
	VersionCur   = 1 // EI_VERSION and e_version: EV_CURRENT
	TypeExec     = 2 // e_type: ET_EXEC
	MachineI386  = 3 // e_machine: EM_386
	identMagic   = "\x7fELF"
	identClass   = 4
	identData    = 5
	identVersion = 6
)

// A Header is the ELF file header, located at offset 0.
type Header struct {
	Ident     [16]byte // magic and identification
	Type      uint16   // object file type
	Machine   uint16   // target architecture
	Version   uint32   // object file version
	Entry     uint32   // entry point virtual address
	Phoff     uint32   // program header table file offset
	Shoff     uint32   // section header table file offset
	Flags     uint32   // processor-specific flags
	Ehsize    uint16   // size of this header
	Phentsize uint16   // size of one program header
	Phnum     uint16   // number of program headers
	Shentsize uint16   // size of one section header
	Shnum     uint16   // number of section headers
	Shstrndx  uint16   // section name string table index
}

// A ProgType is the kind of a program header entry.
type ProgType uint32

const (
	PT_NULL         ProgType = 0
	PT_LOAD         ProgType = 1
	PT_DYNAMIC      ProgType = 2
	PT_INTERP       ProgType = 3
	PT_NOTE         ProgType = 4
	PT_SHLIB        ProgType = 5
	PT_PHDR         ProgType = 6
	PT_TLS          ProgType = 7
	PT_LOOS         ProgType = 0x60000000
	PT_GNU_EH_FRAME ProgType = 0x6474e550
	PT_GNU_STACK    ProgType = 0x6474e551
	PT_GNU_RELRO    ProgType = 0x6474e552
	PT_HIOS         ProgType = 0x6fffffff
	PT_LOPROC       ProgType = 0x70000000
	PT_HIPROC       ProgType = 0x7fffffff
)

var progTypeNames = map[ProgType]string{
	PT_NULL:         "NULL",
	PT_LOAD:         "LOAD",
	PT_DYNAMIC:      "DYNAMIC",
	PT_INTERP:       "INTERP",
	PT_NOTE:         "NOTE",
	PT_SHLIB:        "SHLIB",
	PT_PHDR:         "PHDR",
	PT_TLS:          "TLS",
	PT_LOOS:         "LOOS",
	PT_GNU_EH_FRAME: "GNU_EH_FRAME",
	PT_GNU_STACK:    "GNU_STACK",
	PT_GNU_RELRO:    "GNU_RELRO",
	PT_HIOS:         "HIOS",
	PT_LOPROC:       "LOPROC",
	PT_HIPROC:       "HIPROC",
}

func (t ProgType) String() string {
	if s, ok := progTypeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// A ProgFlag is a set of segment permission bits.
type ProgFlag uint32

const (
	PF_X ProgFlag = 0x1 // executable
	PF_W ProgFlag = 0x2 // writable
	PF_R ProgFlag = 0x4 // readable
)

// String returns the permission string used in program header listings. Only
// the four readable combinations have a name.
func (f ProgFlag) String() string {
	switch f {
	case PF_R:
		return "R"
	case PF_R | PF_X:
		return "R E"
	case PF_R | PF_W:
		return "RW"
	case PF_R | PF_W | PF_X:
		return "RWE"
	default:
		return "Unknown"
	}
}

// A Prog is one program header entry, describing a segment.
type Prog struct {
	Type   ProgType // segment kind
	Off    uint32   // file offset
	Vaddr  uint32   // virtual address
	Paddr  uint32   // physical address, informational
	Filesz uint32   // size in the file
	Memsz  uint32   // size in memory
	Flags  ProgFlag // permissions
	Align  uint32   // required alignment
}
