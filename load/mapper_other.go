//go:build !linux

package load

import (
	"runtime"

	"github.com/pkg/errors"
)

// SysMapper maps segments into the running process. Fixed file-backed
// mappings are only implemented on Linux.
type SysMapper struct{}

// MapFixed implements Mapper.
func (SysMapper) MapFixed(r Region) error {
	return errors.Errorf("fixed segment mappings are not supported on %s", runtime.GOOS)
}
