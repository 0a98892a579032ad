package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moria.us/elfload/elf32"
)

const mainEnv = "ELFLOAD_TEST_MAIN"

func TestMain(m *testing.M) {
	if args := os.Getenv(mainEnv); args != "" {
		os.Args = append([]string{"elfload"}, strings.Fields(args)...)
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// runMain runs the command in a child process and returns its exit code and
// output.
func runMain(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), mainEnv+"="+strings.Join(args, " "))
	var out, errOut strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), out.String(), errOut.String()
	}
	require.NoError(t, err)
	return 0, out.String(), errOut.String()
}

func TestMissingArgument(t *testing.T) {
	code, _, stderr := runMain(t, "-q")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "missing argument")
}

func TestNonexistentFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "missing")
	code, stdout, stderr := runMain(t, name)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "cannot open file")
	assert.Empty(t, stdout)
}

func TestDryRun(t *testing.T) {
	exe := &elf32.Executable{
		Entry: 0x08048080,
		Segments: []elf32.Segment{
			{Prog: elf32.Prog{Type: elf32.PT_LOAD, Vaddr: 0x08048000, Filesz: 0x100, Memsz: 0x100,
				Flags: elf32.PF_R | elf32.PF_X, Align: 0x1000}},
			{Prog: elf32.Prog{Type: elf32.PT_NOTE, Off: 0x100, Vaddr: 0x08048100, Filesz: 0x10, Memsz: 0x10,
				Flags: elf32.PF_R, Align: 4}},
		},
	}
	name := filepath.Join(t.TempDir(), "prog")
	require.NoError(t, os.WriteFile(name, exe.Bytes(), 0o755))

	code, stdout, stderr := runMain(t, "-n", "-header", name, "ignored")
	assert.Equal(t, 0, code, "stderr:\n%s", stderr)
	assert.Contains(t, stdout, "ELF Header:")
	assert.Contains(t, stdout, "LOAD")
	assert.Contains(t, stdout, "NOTE")
	assert.Contains(t, stdout, "R E")
}
