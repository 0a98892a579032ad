package load

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"moria.us/elfload/elf32"
)

const (
	fixtureBase  = 0x70000000
	fixtureEntry = fixtureBase + 0x100
	fixtureData  = fixtureBase + 0x1080
	fixtureMsg   = "hello from elfload\n"
	fixtureExit  = 42
)

// fixtureCode is i386 code that writes fixtureMsg to stdout and exits the
// process with fixtureExit.
func fixtureCode() []byte {
	le := binary.LittleEndian
	n := uint32(len(fixtureMsg))
	var c []byte
	c = le.AppendUint32(append(c, 0xb8), 4)           // mov eax, SYS_write
	c = le.AppendUint32(append(c, 0xbb), 1)           // mov ebx, 1
	c = le.AppendUint32(append(c, 0xb9), fixtureData) // mov ecx, msg
	c = le.AppendUint32(append(c, 0xba), n)           // mov edx, len
	c = append(c, 0xcd, 0x80)                         // int 0x80
	c = le.AppendUint32(append(c, 0xb8), 252)         // mov eax, SYS_exit_group
	c = le.AppendUint32(append(c, 0xbb), fixtureExit) // mov ebx, status
	c = append(c, 0xcd, 0x80)                         // int 0x80
	return c
}

// fixtureExecutable is a two-segment static executable: code past the
// headers in a segment at a page aligned address, and data at an address in
// the middle of a page with a bss tail. A non-loadable stack segment follows.
func fixtureExecutable() *elf32.Executable {
	code := append(make([]byte, fixtureEntry-fixtureBase), fixtureCode()...)
	return &elf32.Executable{
		Entry: fixtureEntry,
		Segments: []elf32.Segment{
			{
				Prog: elf32.Prog{Type: elf32.PT_LOAD, Off: 0, Vaddr: fixtureBase, Paddr: fixtureBase,
					Filesz: uint32(len(code)), Memsz: uint32(len(code)), Flags: elf32.PF_R | elf32.PF_X, Align: 0x1000},
				Data: code,
			},
			{
				Prog: elf32.Prog{Type: elf32.PT_LOAD, Off: 0x1080, Vaddr: fixtureData, Paddr: fixtureData,
					Filesz: uint32(len(fixtureMsg)), Memsz: 0x40, Flags: elf32.PF_R | elf32.PF_W, Align: 0x1000},
				Data: []byte(fixtureMsg),
			},
			{
				Prog: elf32.Prog{Type: elf32.PT_GNU_STACK, Flags: elf32.PF_R | elf32.PF_W, Align: 0x10},
			},
		},
	}
}

func writeFixture(t *testing.T, image []byte) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "fixture")
	if err := os.WriteFile(name, image, 0o755); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestFixtureCodeIntact(t *testing.T) {
	image := fixtureExecutable().Bytes()
	off := fixtureEntry - fixtureBase
	code := fixtureCode()
	if got := image[off : off+len(code)]; !bytes.Equal(got, code) {
		t.Errorf("code at entry: got % x, expected % x", got, code)
	}
	if got := string(image[0x1080 : 0x1080+len(fixtureMsg)]); got != fixtureMsg {
		t.Errorf("data: got %q, expected %q", got, fixtureMsg)
	}
}
