package load

import (
	"golang.org/x/sys/unix"

	"moria.us/elfload/elf32"
)

// A Cap is a set of memory access capabilities.
type Cap uint8

const (
	CapRead Cap = 1 << iota
	CapWrite
	CapExec
)

// Has returns true if c contains all of x.
func (c Cap) Has(x Cap) bool {
	return c&x == x
}

func (c Cap) String() string {
	b := []byte("---")
	if c.Has(CapRead) {
		b[0] = 'r'
	}
	if c.Has(CapWrite) {
		b[1] = 'w'
	}
	if c.Has(CapExec) {
		b[2] = 'x'
	}
	return string(b)
}

// Prot returns the mmap protection bits for the set.
func (c Cap) Prot() int {
	prot := unix.PROT_NONE
	if c.Has(CapRead) {
		prot |= unix.PROT_READ
	}
	if c.Has(CapWrite) {
		prot |= unix.PROT_WRITE
	}
	if c.Has(CapExec) {
		prot |= unix.PROT_EXEC
	}
	return prot
}

// A MapMode selects between private copy-on-write and shared mappings.
type MapMode uint8

const (
	MapPrivate MapMode = iota
	MapShared
)

func (m MapMode) String() string {
	if m == MapShared {
		return "shared"
	}
	return "private"
}

// Flags returns the mmap flag for the mode.
func (m MapMode) Flags() int {
	if m == MapShared {
		return unix.MAP_SHARED
	}
	return unix.MAP_PRIVATE
}

// Perms is the protection and mapping mode derived from segment flags.
type Perms struct {
	Caps Cap
	Mode MapMode
}

// Prot returns the mmap protection bits.
func (p Perms) Prot() int { return p.Caps.Prot() }

// Translate converts segment permission flags. A segment without PF_R gets
// no capabilities at all, whatever its other bits.
//
// The mode is private only for readable segments and shared otherwise. This
// matches the tool elfload replaces; a kernel loader always maps privately.
// Since unreadable segments also get PROT_NONE, the shared mapping can never
// write back to the file.
func Translate(f elf32.ProgFlag) Perms {
	if f&elf32.PF_R == 0 {
		return Perms{Mode: MapShared}
	}
	caps := CapRead
	if f&elf32.PF_W != 0 {
		caps |= CapWrite
	}
	if f&elf32.PF_X != 0 {
		caps |= CapExec
	}
	return Perms{Caps: caps, Mode: MapPrivate}
}
