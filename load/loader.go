//go:build unix

// Package load maps a statically linked i386 executable into the running
// process and starts it.
package load

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"moria.us/elfload/elf32"
)

// A State is a step of the loader. Loaders only move forward; Launched and
// Failed are terminal.
type State int

const (
	Init State = iota
	FileOpened
	HeaderValidated
	SegmentProcessed
	Launched
	Failed
)

var stateNames = [...]string{
	Init:             "init",
	FileOpened:       "file opened",
	HeaderValidated:  "header validated",
	SegmentProcessed: "segment processed",
	Launched:         "launched",
	Failed:           "failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// A Loader loads one executable. The zero value is not usable; call New.
type Loader struct {
	Mapper   Mapper
	Launcher Launcher
	Report   io.Writer // program header listing, nil for none
	Header   io.Writer // file header dump, nil for none
	PageSize uintptr
	Env      []string // environment passed to the program
	DryRun   bool     // stop after placing segments, map nothing
	Log      logrus.FieldLogger

	state    State
	failure  Kind
	segments []MappedSegment
	image    *Image
}

// New returns a loader that maps into the running process and launches with
// the trampoline.
func New() *Loader {
	return &Loader{
		Mapper:   SysMapper{},
		Launcher: Trampoline{},
		Report:   os.Stdout,
		PageSize: uintptr(os.Getpagesize()),
		Env:      os.Environ(),
		Log:      logrus.StandardLogger(),
	}
}

// State returns the current state.
func (l *Loader) State() State { return l.state }

// Failure returns the kind of failure once the loader is in the Failed state.
func (l *Loader) Failure() Kind { return l.failure }

// Segments returns the segments mapped so far. In a dry run these are the
// segments that would have been mapped.
func (l *Loader) Segments() []MappedSegment { return l.segments }

func (l *Loader) transition(s State, log logrus.FieldLogger) {
	if l.state != s {
		log.WithField("state", s).Debug("Loader state")
	}
	l.state = s
}

// Load loads the named executable and starts it with the given arguments
// after the program name. On success, Load only returns for a dry run.
func (l *Loader) Load(name string, args []string) (err error) {
	if l.state != Init {
		return errors.Errorf("loader already used, state %v", l.state)
	}
	log := l.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("path", name)
	defer func() {
		if err != nil {
			l.failure = KindOf(err)
			l.transition(Failed, log.WithError(err))
		}
	}()

	if name == "" {
		return NewError(MissingArgument, errors.New("no file name is provided"))
	}
	img, err := OpenImage(name)
	if err != nil {
		return wrapError(err, name)
	}
	l.image = img
	l.transition(FileOpened, log)

	// Everything needed from the image is copied out before the first
	// segment is mapped, since a fixed mapping may land on top of it.
	h, err := elf32.ReadHeader(img.Bytes())
	if err != nil {
		img.Close()
		return wrapError(err, name)
	}
	if l.Header != nil {
		w := bufio.NewWriter(l.Header)
		w.WriteString("ELF Header:\n")
		h.DumpText(w, "  ")
		w.Flush()
	}
	progs, err := h.ReadProgs(img.Bytes())
	if err != nil {
		img.Close()
		return wrapError(err, name)
	}
	l.transition(HeaderValidated, log)
	if l.Report != nil {
		WriteProgTable(l.Report, progs)
	}

	for i, p := range progs {
		if p.Type != elf32.PT_LOAD {
			log.WithField("index", i).Debugf("Skipping %v segment", p.Type)
			continue
		}
		seg, ok, err := l.mapSegment(i, p, img.Fd(), log)
		if err != nil {
			// Earlier segments may overlap the image, so it stays mapped.
			return wrapError(wrapErrorSegment(err, i), name)
		}
		if ok {
			l.segments = append(l.segments, seg)
			l.transition(SegmentProcessed, log)
		}
	}

	c := LaunchContext{
		Args:     append([]string{name}, args...),
		Env:      l.Env,
		Entry:    uintptr(h.Entry),
		Phdr:     phdrAddr(h, progs),
		Phnum:    len(progs),
		PageSize: l.PageSize,
	}
	if l.DryRun {
		log.WithField("entry", fmt.Sprintf("0x%08x", c.Entry)).Info("Dry run, not launching")
		return img.Close()
	}
	log.WithField("entry", fmt.Sprintf("0x%08x", c.Entry)).Debug("Launching")
	l.transition(Launched, log)
	if err := l.Launcher.Launch(c); err != nil {
		return wrapError(NewError(LaunchFailure, err), name)
	}
	panic("launcher returned")
}

// mapSegment places and maps one loadable segment. It returns false for
// segments with nothing to map.
func (l *Loader) mapSegment(i int, p elf32.Prog, fd int, log logrus.FieldLogger) (MappedSegment, bool, error) {
	pl, err := Place(p, l.PageSize)
	if err != nil {
		return MappedSegment{}, false, NewError(SegmentMapFailure, err)
	}
	log = log.WithFields(logrus.Fields{
		"index":  i,
		"base":   fmt.Sprintf("0x%08x", pl.Base),
		"length": humanize.IBytes(uint64(pl.Length)),
	})
	if p.Memsz == 0 {
		log.Debug("Empty segment, nothing to map")
		return MappedSegment{}, false, nil
	}
	perms := Translate(p.Flags)
	if !l.DryRun {
		if err := l.Mapper.MapFixed(Region{Placement: pl, Perms: perms, Fd: fd}); err != nil {
			return MappedSegment{}, false, NewError(SegmentMapFailure, err)
		}
	}
	log.WithField("perms", perms.Caps).Debug("Mapped segment")
	return MappedSegment{
		Index:  i,
		Prog:   p,
		Base:   pl.Base,
		Length: pl.Length,
		Perms:  perms,
	}, true, nil
}

// phdrAddr returns the address the program header table is loaded at, or 0
// if no loadable segment covers it.
func phdrAddr(h *elf32.Header, progs []elf32.Prog) uintptr {
	for _, p := range progs {
		if p.Type == elf32.PT_PHDR {
			return uintptr(p.Vaddr)
		}
	}
	start := uint64(h.Phoff)
	end := start + uint64(h.Phnum)*elf32.ProgSize
	for _, p := range progs {
		if p.Type == elf32.PT_LOAD && uint64(p.Off) <= start && end <= uint64(p.Off)+uint64(p.Filesz) {
			return uintptr(uint64(p.Vaddr) + start - uint64(p.Off))
		}
	}
	return 0
}
