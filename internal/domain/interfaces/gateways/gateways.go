// Package gateways defines the contracts of the external collaborators the
// core pipeline depends on. The core is specified only at these boundaries;
// adapters live in internal/domain-adapters and internal/external-adapters.
package gateways

import (
	"context"

	"github.com/ochairo/cauldron/internal/domain/entities"
)

// MetadataGateway queries the remote package metadata source. Names absent
// from the result signal "not found", not an error on the call itself.
type MetadataGateway interface {
	Info(ctx context.Context, names []string) (map[string]entities.PackageInfo, error)
}

// PackageManager is the system package manager collaborator.
type PackageManager interface {
	// IsSatisfiable reports whether the named dependency can be satisfied
	// without building from source, either by an installed package or by
	// one available from the system repositories.
	IsSatisfiable(ctx context.Context, name string) (bool, error)

	// InstallPackages installs the given system packages.
	InstallPackages(ctx context.Context, names []string) error

	// InstallFiles installs local archive files with elevated privilege.
	// asDeps marks them as automatically-pulled dependencies in the
	// manager's own orphan tracking.
	InstallFiles(ctx context.Context, files []entities.TargetFile, asDeps bool) error
}

// Builder runs a recipe's confined build steps against a working directory,
// producing output files directly in that directory. Failure is fatal to the
// run.
type Builder interface {
	Build(ctx context.Context, dir string, offline bool) error
}

// Reviewer ensures a human has reviewed the build recipe source for a
// package base before its first build. Idempotent across runs.
type Reviewer interface {
	EnsureReviewed(ctx context.Context, pkgBase string) error
}

// Terminal is the blocking operator terminal: one lower-cased line of input
// per read, plus an inspection shell rooted at a directory.
type Terminal interface {
	ReadLine() string
	RunShell(dir string) error
}

// Layout supplies the directory layout contracts the core relies on.
type Layout interface {
	ReviewDir(pkgBase string) string
	BuildDir(pkgBase string) string
	CheckedDir(pkgBase string) string
}
