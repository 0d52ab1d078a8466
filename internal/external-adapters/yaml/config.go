// Package yaml loads the cauldron configuration file.
package yaml

import (
	"fmt"
	"os"

	yamlv3 "gopkg.in/yaml.v3"
)

// Config holds the user-tunable settings. Every field is optional; zero
// values select built-in defaults at the point of use.
type Config struct {
	// AURURL is the remote metadata RPC endpoint.
	AURURL string `yaml:"aur_rpc_url"`

	// SnapshotURL is the recipe snapshot endpoint template; %s is the
	// package base.
	SnapshotURL string `yaml:"snapshot_url"`

	// BuildCommand is the confined build command run in each build dir.
	BuildCommand string `yaml:"build_command"`

	// PacmanCommand is the system package manager binary.
	PacmanCommand string `yaml:"pacman_command"`

	// SudoCommand is the privilege-elevation command for install calls.
	SudoCommand string `yaml:"sudo_command"`

	// GPGKeyring is an optional armored keyring file; when set, detached
	// artifact signatures are verified against it at the artifact gate.
	GPGKeyring string `yaml:"gpg_keyring"`
}

// Load reads the configuration file at path. A missing file is not an error
// and yields an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yamlv3.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}
