package logx_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/keyscreen/internal/errors"
	"github.com/junsooki/keyscreen/internal/logx"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	logx.New(&buf, false).Debug(`hidden`)
	assert.Empty(t, buf.String())

	logx.New(&buf, true).Debug(`shown`)
	assert.Contains(t, buf.String(), `msg=shown`)
	assert.Contains(t, buf.String(), `source=`)
}

func TestOpen(t *testing.T) {
	var fallback bytes.Buffer
	w, closeFn, err := logx.Open(``, &fallback)
	require.NoError(t, err)
	assert.Same(t, &fallback, w)
	assert.NoError(t, closeFn())

	path := filepath.Join(t.TempDir(), `keyscreen.log`)
	w, closeFn, err = logx.Open(path, &fallback)
	require.NoError(t, err)
	logx.New(w, false).Info(`hello`)
	require.NoError(t, closeFn())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `msg=hello`)

	_, _, err = logx.Open(filepath.Join(t.TempDir(), `missing`, `x.log`), nil)
	assert.Error(t, err)
}

func TestIsErrSplitsJoined(t *testing.T) {
	var buf bytes.Buffer
	logger := logx.New(&buf, false)

	assert.False(t, logx.IsErr(nil, logger, slog.LevelError, `nothing`))
	assert.Empty(t, buf.String())

	err := errors.Join(errors.New(`first`), errors.New(`second`))
	assert.True(t, logx.IsErr(err, logger, slog.LevelWarn, `config`))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `error=first`)
	assert.Contains(t, lines[1], `error=second`)
	assert.Contains(t, lines[1], `level=WARN`)
}
