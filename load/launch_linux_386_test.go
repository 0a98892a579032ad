package load

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const childEnv = "ELFLOAD_TEST_CHILD"

// TestLaunchChild is the loader process for TestLaunch. The fixture exits the
// process, so this must not run inside the main test binary.
func TestLaunchChild(t *testing.T) {
	name := os.Getenv(childEnv)
	if name == "" {
		t.Skip("only runs as a child of TestLaunch")
	}
	l := New()
	l.Report = os.Stderr
	err := l.Load(name, []string{"child"})
	t.Fatalf("Load returned: %v", err)
}

func TestLaunch(t *testing.T) {
	name := writeFixture(t, fixtureExecutable().Bytes())
	cmd := exec.Command(os.Args[0], "-test.run=^TestLaunchChild$")
	cmd.Env = append(os.Environ(), childEnv+"="+name)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "child: %v\n%s", err, stderr.String())
	assert.Equal(t, fixtureExit, exitErr.ExitCode(), "stderr:\n%s", stderr.String())
	assert.Equal(t, fixtureMsg, stdout.String())
	assert.Contains(t, stderr.String(), "LOAD")
}

func TestLaunchNonexistent(t *testing.T) {
	l := New()
	l.Report = nil
	err := l.Load("/nonexistent/elfload/fixture", nil)
	assert.Equal(t, FileOpenFailure, KindOf(err))
	assert.Empty(t, l.Segments())
}
