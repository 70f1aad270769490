package action

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrowser_DefaultTimeout(t *testing.T) {
	b := NewBrowser(true, 0, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, 20*time.Second, b.timeout)

	b = NewBrowser(true, 5*time.Second, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, 5*time.Second, b.timeout)
}

func TestBrowser_CloseBeforeStart(t *testing.T) {
	b := NewBrowser(true, time.Second, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	b.Close()
	b.Close()
}

func TestBrowser_MissingExecutable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-chrome")
	b := NewBrowser(true, time.Second, missing, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer b.Close()

	err := b.Play(context.Background(), "lofi beats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting chrome")
	assert.Nil(t, b.browserCtx, "failed start must not be cached")
}
