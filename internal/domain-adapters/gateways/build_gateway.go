package gateways

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ochairo/cauldron/internal/logging"
)

// BuildGateway invokes the confined build command against a working
// directory. The command is expected to produce artifact archives directly in
// that directory. Builds inherit the terminal and are never retried.
type BuildGateway struct {
	command []string
}

// NewBuildGateway creates a build executor for the given command line.
// An empty command selects "makepkg --noconfirm".
func NewBuildGateway(command string) *BuildGateway {
	if strings.TrimSpace(command) == "" {
		command = "makepkg --noconfirm"
	}
	return &BuildGateway{
		command: strings.Fields(command),
	}
}

// Build runs the build command in dir. The offline flag is exported to the
// build environment so a wrapper script can cut network access.
func (g *BuildGateway) Build(ctx context.Context, dir string, offline bool) error {
	logger := logging.GetLogger("build")
	logger.Info().Str("dir", dir).Bool("offline", offline).Msg("starting confined build")

	cmd := exec.CommandContext(ctx, g.command[0], g.command[1:]...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if offline {
		cmd.Env = append(cmd.Env, "CAULDRON_OFFLINE=1")
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("build command %q failed in %s: %w", strings.Join(g.command, " "), dir, err)
	}
	logger.Debug().Str("dir", dir).Msg("build complete")
	return nil
}
