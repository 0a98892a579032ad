package load

import (
	"github.com/pkg/errors"

	"moria.us/elfload/elf32"
)

// A Placement is where a loadable segment goes in the address space. All
// addresses are absolute.
type Placement struct {
	Base       uintptr // page-aligned start of the mapping
	Padding    uintptr // offset of the segment's first byte within the page
	FileOffset int64   // page-aligned file offset backing Base
	Length     uintptr // Memsz + Padding

	// Zero-fill for Memsz > Filesz. ZeroStart..ZeroEnd is the part of the
	// last file-backed page past Filesz. AnonStart..AnonEnd are whole pages
	// beyond it that are replaced with anonymous memory.
	ZeroStart, ZeroEnd uintptr
	AnonStart, AnonEnd uintptr
}

// Place computes the placement of a segment for the given page size, which
// must be a power of two.
func Place(p elf32.Prog, pageSize uintptr) (Placement, error) {
	if pageSize == 0 || pageSize&(pageSize-1) != 0 {
		return Placement{}, errors.Errorf("page size 0x%x is not a power of two", pageSize)
	}
	mask := uint64(pageSize - 1)
	vaddr := uint64(p.Vaddr)
	if p.Filesz > p.Memsz {
		return Placement{}, errors.Errorf("file size 0x%x exceeds memory size 0x%x", p.Filesz, p.Memsz)
	}
	if end := vaddr + uint64(p.Memsz); (end+mask)&^mask > 1<<32 {
		return Placement{}, errors.Errorf("segment end 0x%x is outside the 32-bit address space", end)
	}
	padding := vaddr & mask
	if off := uint64(p.Off) & mask; off != padding {
		return Placement{}, errors.Errorf("file offset 0x%x and address 0x%x disagree modulo page size (0x%x != 0x%x)",
			p.Off, p.Vaddr, off, padding)
	}
	pl := Placement{
		Base:       uintptr(vaddr &^ mask),
		Padding:    uintptr(padding),
		FileOffset: int64(uint64(p.Off) &^ mask),
		Length:     uintptr(uint64(p.Memsz) + padding),
	}
	if p.Memsz > p.Filesz {
		fileEnd := vaddr + uint64(p.Filesz)
		memEnd := vaddr + uint64(p.Memsz)
		pageEnd := (fileEnd + mask) &^ mask
		if fileEnd&mask != 0 {
			pl.ZeroStart = uintptr(fileEnd)
			pl.ZeroEnd = uintptr(min(pageEnd, memEnd))
		}
		if memEnd > pageEnd {
			pl.AnonStart = uintptr(pageEnd)
			pl.AnonEnd = uintptr((memEnd + mask) &^ mask)
		}
	}
	return pl, nil
}

// A Region is a request for one fixed-address, file-backed mapping.
type Region struct {
	Placement
	Perms Perms
	Fd    int
}

// A Mapper establishes fixed-address mappings in the running process.
// Mapping over an existing range replaces it.
type Mapper interface {
	MapFixed(r Region) error
}

// A MappedSegment is a loadable segment that has been mapped.
type MappedSegment struct {
	Index  int        // program header index
	Prog   elf32.Prog // program header
	Base   uintptr    // page-aligned base address
	Length uintptr    // mapped length
	Perms  Perms      // applied permissions
}
