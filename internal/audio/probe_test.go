package audio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProber_MissingFile(t *testing.T) {
	_, err := NewProber().Duration(context.Background(), filepath.Join(t.TempDir(), "missing.m4b"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.m4b")
}

func TestProber_NotAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.mp3")
	require.NoError(t, os.WriteFile(path, []byte("this is not an mp3 file"), 0o644))

	d, err := NewProber().Duration(context.Background(), path)

	assert.Error(t, err)
	assert.Zero(t, d)
}
