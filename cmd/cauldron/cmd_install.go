package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	adapters "github.com/ochairo/cauldron/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/cauldron/internal/domain-orchestrators"
	"github.com/ochairo/cauldron/internal/domain/services"
	"github.com/ochairo/cauldron/internal/external-adapters/gpg"
	yamlcfg "github.com/ochairo/cauldron/internal/external-adapters/yaml"
	"github.com/ochairo/cauldron/internal/logging"
	"github.com/ochairo/cauldron/internal/paths"
)

func runInstall(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("install", flag.ExitOnError)
	var (
		offline   = fs.Bool("offline", false, "Forbid network access during builds")
		asDeps    = fs.Bool("asdeps", false, "Mark installed targets as dependencies")
		verbosity = fs.Int("v", 0, "Verbosity level (0-3)")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cauldron install [options] <target>...

Resolve the targets' dependency graph, build required packages from source in
descending depth order, force an interactive audit of every built archive and
install each audited tier with the system package manager.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return exitFailure
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: at least one target is required\n\n")
		fs.Usage()
		return exitFailure
	}

	logging.SetupLogger(*verbosity)

	layout := paths.New()
	cfg, err := yamlcfg.Load(layout.ConfigFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitFailure
	}

	term := adapters.NewTerminal()
	walker := adapters.NewTarWalker()
	auditor := services.NewAuditor(walker, term, os.Stderr)

	var verifier orchestrators.SignatureVerifier
	if cfg.GPGKeyring != "" {
		v := gpg.NewVerifier()
		if err := v.ImportKeyringFile(cfg.GPGKeyring); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitFailure
		}
		verifier = v
	}

	pacman := adapters.NewPacmanGateway(cfg.PacmanCommand, cfg.SudoCommand)
	resolver := services.NewResolver(adapters.NewAURGateway(cfg.AURURL), pacman)
	reviewer := adapters.NewReviewerGateway(layout, adapters.NewSnapshotGateway(cfg.SnapshotURL), term, os.Stderr)
	gate := orchestrators.NewArtifactGate(layout, auditor, verifier)

	orch := orchestrators.NewInstallOrchestrator(
		resolver,
		pacman,
		adapters.NewBuildGateway(cfg.BuildCommand),
		reviewer,
		gate,
		layout,
		term,
		os.Stderr,
	)

	err = orch.Install(ctx, fs.Args(), orchestrators.InstallOptions{
		Offline: *offline,
		AsDeps:  *asDeps,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}
