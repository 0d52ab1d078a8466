package gateways

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/ochairo/cauldron/internal/domain/entities"
	"github.com/ochairo/cauldron/internal/logging"
)

// PacmanGateway is the exec-based system package manager collaborator.
// Install calls run through the configured privilege-elevation command and
// inherit the terminal, since the manager prompts on its own.
type PacmanGateway struct {
	pacman string
	sudo   string
}

// NewPacmanGateway creates a package manager gateway. Empty commands select
// the defaults ("pacman", "sudo").
func NewPacmanGateway(pacman, sudo string) *PacmanGateway {
	if pacman == "" {
		pacman = "pacman"
	}
	if sudo == "" {
		sudo = "sudo"
	}
	return &PacmanGateway{
		pacman: pacman,
		sudo:   sudo,
	}
}

// IsSatisfiable reports whether name is satisfied by an installed package
// (including virtual provides) or available from the system repositories.
func (g *PacmanGateway) IsSatisfiable(ctx context.Context, name string) (bool, error) {
	// pacman -T exits zero when the dependency is already satisfied.
	satisfied, err := g.probe(ctx, "-T", name)
	if err != nil {
		return false, err
	}
	if satisfied {
		return true, nil
	}
	// Otherwise check the sync repositories.
	return g.probe(ctx, "-Si", "--", name)
}

func (g *PacmanGateway) probe(ctx context.Context, args ...string) (bool, error) {
	cmd := exec.CommandContext(ctx, g.pacman, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, fmt.Errorf("failed to run %s: %w", g.pacman, err)
}

// InstallPackages installs the given system packages, skipping ones already
// present.
func (g *PacmanGateway) InstallPackages(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	args := append([]string{g.pacman, "-S", "--needed", "--"}, names...)
	return g.runPrivileged(ctx, args)
}

// InstallFiles installs local archive files, optionally marking them as
// automatically-pulled dependencies.
func (g *PacmanGateway) InstallFiles(ctx context.Context, files []entities.TargetFile, asDeps bool) error {
	if len(files) == 0 {
		return nil
	}
	args := []string{g.pacman, "-U"}
	if asDeps {
		args = append(args, "--asdeps")
	}
	args = append(args, "--")
	for _, file := range files {
		args = append(args, file.Path)
	}
	logger := logging.GetLogger("pacman")
	logger.Info().Int("files", len(files)).Bool("asDeps", asDeps).Msg("installing checked artifacts")
	return g.runPrivileged(ctx, args)
}

func (g *PacmanGateway) runPrivileged(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, g.sudo, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v failed: %w", g.sudo, args, err)
	}
	return nil
}
