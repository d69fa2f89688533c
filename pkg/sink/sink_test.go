package sink_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwm-statusbar/pkg/config"
	"github.com/dwm-statusbar/pkg/sink"
)

func fakeXSetRoot(t *testing.T, body string) *sink.XSetRoot {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xsetroot")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return &sink.XSetRoot{Path: path}
}

func TestXSetRootPassesLineAsName(t *testing.T) {
	dir := t.TempDir()
	record := filepath.Join(dir, "args")
	x := fakeXSetRoot(t, `printf '%s\n' "$@" > `+record+"\n")

	require.NoError(t, x.Deliver(context.Background(), " CPU 1% | RAM 2% "))

	data, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, "-name\n CPU 1% | RAM 2% \n", string(data))
}

func TestXSetRootFailure(t *testing.T) {
	x := fakeXSetRoot(t, "echo 'unable to open display' >&2\nexit 1\n")

	err := x.Deliver(context.Background(), "line")
	var de *sink.DeliveryError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "line", de.Line)
	assert.Equal(t, "unable to open display", de.Output)
	var exitErr *exec.ExitError
	assert.True(t, errors.As(err, &exitErr))
}

func TestXSetRootMissingProgram(t *testing.T) {
	x := &sink.XSetRoot{Path: filepath.Join(t.TempDir(), "missing")}
	err := x.Deliver(context.Background(), "line")
	var de *sink.DeliveryError
	assert.True(t, errors.As(err, &de))
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := sink.NewWriter(&buf)
	require.NoError(t, w.Deliver(context.Background(), "a"))
	require.NoError(t, w.Deliver(context.Background(), "b"))
	assert.Equal(t, "a\nb\n", buf.String())
}

func TestNew(t *testing.T) {
	s, err := sink.New(config.SinkXSetRoot, nil)
	require.NoError(t, err)
	assert.IsType(t, &sink.XSetRoot{}, s)

	s, err = sink.New(config.SinkStdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &sink.Writer{}, s)

	_, err = sink.New("lemonbar", nil)
	var cfgErr *config.Error
	assert.True(t, errors.As(err, &cfgErr))
}
