package load

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// SysMapper maps segments into the running process with mmap(2).
type SysMapper struct{}

// MapFixed implements Mapper. Segments are always mapped private; the mode in
// r.Perms is only reported.
func (SysMapper) MapFixed(r Region) error {
	addr, err := unix.MmapPtr(r.Fd, r.FileOffset, unsafe.Pointer(r.Base), r.Length,
		r.Perms.Prot(), unix.MAP_PRIVATE|unix.MAP_FIXED)
	if err != nil {
		return errors.Wrapf(err, "mmap 0x%x+0x%x", r.Base, r.Length)
	}
	if uintptr(addr) != r.Base {
		return errors.Errorf("mmap placed segment at %p, expected 0x%x", addr, r.Base)
	}
	if r.ZeroEnd > r.ZeroStart && r.Perms.Caps.Has(CapWrite) {
		clear(unsafe.Slice((*byte)(unsafe.Pointer(r.ZeroStart)), r.ZeroEnd-r.ZeroStart))
	}
	if r.AnonEnd > r.AnonStart {
		_, err := unix.MmapPtr(-1, 0, unsafe.Pointer(r.AnonStart), r.AnonEnd-r.AnonStart,
			r.Perms.Prot(), unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_FIXED)
		if err != nil {
			return errors.Wrapf(err, "mmap bss 0x%x-0x%x", r.AnonStart, r.AnonEnd)
		}
	}
	return nil
}
