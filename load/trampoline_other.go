//go:build !(linux && 386)

package load

import (
	"runtime"

	"github.com/pkg/errors"
)

// A Trampoline launches i386 programs in the current process. Only linux/386
// hosts can run them.
type Trampoline struct {
	StackSize int
}

// Launch implements Launcher.
func (Trampoline) Launch(c LaunchContext) error {
	return errors.Errorf("cannot run i386 code on %s/%s", runtime.GOOS, runtime.GOARCH)
}
