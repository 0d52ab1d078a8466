package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	adapters "github.com/ochairo/cauldron/internal/domain-adapters/gateways"
	"github.com/ochairo/cauldron/internal/domain/services"
	"github.com/ochairo/cauldron/internal/logging"
)

func runAudit(_ context.Context, args []string) int {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	verbosity := fs.Int("v", 0, "Verbosity level (0-3)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cauldron audit <archive>...

Classify each archive's members (executable, privileged, install script) and
run the interactive approval loop over it, without building or installing
anything.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return exitFailure
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: at least one archive file is required\n\n")
		fs.Usage()
		return exitFailure
	}

	logging.SetupLogger(*verbosity)

	auditor := services.NewAuditor(adapters.NewTarWalker(), adapters.NewTerminal(), os.Stderr)
	for _, path := range fs.Args() {
		if err := auditor.Audit(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitCode(err)
		}
		fmt.Fprintf(os.Stderr, "Archive %s approved.\n", path)
	}
	return exitOK
}
