//go:build unix

package load

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// An Image is an executable file mapped read-only into the loader's address
// space. The descriptor stays open because segment mappings are backed by it.
type Image struct {
	fd   int
	data []byte
}

// OpenImage opens the named file and maps all of it read-only.
func OpenImage(name string) (*Image, error) {
	fd, err := unix.Open(name, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, NewError(FileOpenFailure, errors.Wrap(err, "open"))
	}
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		unix.Close(fd)
		return nil, NewError(FileSizeQueryFailure, errors.Wrap(err, "fstat"))
	}
	size := st.Size
	if size <= 0 || int64(int(size)) != size {
		unix.Close(fd)
		return nil, NewError(WholeFileMapFailure, errors.Errorf("file size %d cannot be mapped", size))
	}
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		unix.Close(fd)
		return nil, NewError(WholeFileMapFailure, errors.Wrap(err, "mmap"))
	}
	return &Image{fd: fd, data: data}, nil
}

// Bytes returns the mapped file contents.
func (m *Image) Bytes() []byte { return m.data }

// Size returns the file size in bytes.
func (m *Image) Size() int { return len(m.data) }

// Fd returns the open file descriptor backing the image.
func (m *Image) Fd() int { return m.fd }

// Close unmaps the image and closes the descriptor. It must not be called
// after segments have been mapped, since they may overlap the image.
func (m *Image) Close() error {
	var err error
	if m.data != nil {
		err = unix.Munmap(m.data)
		m.data = nil
	}
	if m.fd >= 0 {
		if cerr := unix.Close(m.fd); err == nil {
			err = cerr
		}
		m.fd = -1
	}
	return err
}
