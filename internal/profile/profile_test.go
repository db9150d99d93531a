package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linkbio/internal/config"
)

func TestLoadMissingFileUsesDefault(t *testing.T) {
	cfg := &config.Config{ProfilePath: filepath.Join(t.TempDir(), "bio.yaml")}
	p, err := Load(cfg, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, Default(), p)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
nickname: alice
links:
  - name: GitHub
    url: https://github.com/alice
    icon: fa-brands fa-github
  - name: Blog
    url: https://alice.dev
`), 0o644))

	p, err := Load(&config.Config{ProfilePath: path}, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, "alice", p.Nickname)
	require.Len(t, p.Links, 2)
	require.Equal(t, "fa-solid fa-link", p.Links[1].Icon)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("nickname: [unclosed"))
	require.Error(t, err)

	_, err = Parse([]byte("links: []"))
	require.ErrorContains(t, err, "nickname is required")

	_, err = Parse([]byte("nickname: a\nlinks:\n  - name: x\n"))
	require.ErrorContains(t, err, "link 0")
}
