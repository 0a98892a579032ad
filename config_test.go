package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"moria.us/elfload/load"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ELFLOAD_LOG_LEVEL", "debug")
	t.Setenv("ELFLOAD_QUIET", "true")
	t.Setenv("ELFLOAD_DRY_RUN", "true")
	t.Setenv("ELFLOAD_HEADER", "")
	cfg := configFromEnv()
	assert.Equal(t, config{LogLevel: "debug", Quiet: true, DryRun: true}, cfg)
}

func TestConfigDefaults(t *testing.T) {
	for _, k := range []string{"ELFLOAD_LOG_LEVEL", "ELFLOAD_QUIET", "ELFLOAD_DRY_RUN", "ELFLOAD_HEADER"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	assert.Equal(t, config{LogLevel: "warning"}, configFromEnv())
}

func TestConfigFromEnvRereads(t *testing.T) {
	t.Setenv("ELFLOAD_LOG_LEVEL", "debug")
	t.Setenv("ELFLOAD_DRY_RUN", "true")
	assert.Equal(t, config{LogLevel: "debug", DryRun: true}, configFromEnv())

	os.Unsetenv("ELFLOAD_LOG_LEVEL")
	os.Setenv("ELFLOAD_DRY_RUN", "false")
	assert.Equal(t, config{LogLevel: "warning"}, configFromEnv())
}

func TestConfigApply(t *testing.T) {
	l := load.New()
	config{Quiet: true, DryRun: true, Header: true}.apply(l)
	assert.True(t, l.DryRun)
	assert.Nil(t, l.Report)
	assert.Equal(t, os.Stdout, l.Header)

	l = load.New()
	config{}.apply(l)
	assert.False(t, l.DryRun)
	assert.Equal(t, os.Stdout, l.Report)
	assert.Nil(t, l.Header)
}
