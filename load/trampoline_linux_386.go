package load

import (
	"crypto/rand"
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const defaultStackSize = 8 << 20

// A Trampoline launches i386 programs in the current process. It builds the
// initial stack in a fresh anonymous mapping and jumps to the entry point.
type Trampoline struct {
	StackSize int // bytes, defaults to 8 MiB
}

// jump switches to the stack at sp and jumps to entry. It does not return.
func jump(sp, entry uintptr)

// Launch implements Launcher.
func (t Trampoline) Launch(c LaunchContext) error {
	size := t.StackSize
	if size <= 0 {
		size = defaultStackSize
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_STACK)
	if err != nil {
		return errors.Wrap(err, "mmap stack")
	}
	base := uintptr(unsafe.Pointer(&mem[0]))
	var random [16]byte
	if _, err := rand.Read(random[:]); err != nil {
		return errors.Wrap(err, "AT_RANDOM")
	}
	image, sp := BuildStack(uint32(base+uintptr(size)), c.Args, c.Env, c.Aux(), random[:])
	if len(image) > size {
		return errors.Errorf("initial stack needs %d bytes, have %d", len(image), size)
	}
	copy(mem[uintptr(sp)-base:], image)

	runtime.LockOSThread()
	jump(uintptr(sp), c.Entry)
	panic("unreachable")
}
