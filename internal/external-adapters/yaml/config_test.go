package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsEmptyConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yml"))

	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad_ParsesAllFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
aur_rpc_url: https://aur.example.org/rpc/
snapshot_url: https://aur.example.org/snapshot/%s.tar.gz
build_command: makepkg --noconfirm --skippgpcheck
pacman_command: pacman
sudo_command: doas
gpg_keyring: /etc/cauldron/trusted.gpg
`), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://aur.example.org/rpc/", cfg.AURURL)
	assert.Equal(t, "https://aur.example.org/snapshot/%s.tar.gz", cfg.SnapshotURL)
	assert.Equal(t, "makepkg --noconfirm --skippgpcheck", cfg.BuildCommand)
	assert.Equal(t, "doas", cfg.SudoCommand)
	assert.Equal(t, "/etc/cauldron/trusted.gpg", cfg.GPGKeyring)
}

func TestLoad_PartialFileLeavesZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("sudo_command: doas\n"), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "doas", cfg.SudoCommand)
	assert.Empty(t, cfg.AURURL)
	assert.Empty(t, cfg.BuildCommand)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("sudo_command: [unclosed\n"), 0o644))

	_, err := Load(path)

	assert.ErrorContains(t, err, "failed to parse config")
}
