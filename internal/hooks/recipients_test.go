package hooks

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRecipients(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads recipient list", func(t *testing.T) {
		path := filepath.Join(dir, "hooks.yaml")
		require.NoError(t, os.WriteFile(path, []byte("recipients:\n  - http://localhost:10100/\n  - https://hooks.example.com/welcome\n"), 0o600))

		urls, err := LoadRecipients(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"http://localhost:10100/", "https://hooks.example.com/welcome"}, urls)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRecipients(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("recipients: [unterminated\n"), 0o600))

		_, err := LoadRecipients(path)
		assert.Error(t, err)
	})
}

func TestRegister(t *testing.T) {
	d := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := d.Register("http://localhost:10100/", "not a url", "http://later.local/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"not a url"`)
	assert.Equal(t, []string{"http://localhost:10100/"}, d.Recipients())
}
