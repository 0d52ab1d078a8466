package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOperatorAborted is returned when the operator rejects an interactive
// audit or review. It unwinds through the orchestration call stack so callers
// observe the abort as a typed outcome; only the CLI entry point turns it
// into a process exit status.
var ErrOperatorAborted = errors.New("aborted by operator")

// ResolutionError wraps a failure to query or decode remote package metadata.
// Fatal to the whole run.
type ResolutionError struct {
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("remote metadata resolution failed: %v", e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// NotFoundError reports requested or transitively required targets that are
// absent from the remote metadata result. The full list is carried so the run
// can abort with every missing name instead of a partial install.
type NotFoundError struct {
	Names []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("packages not found upstream: %s", strings.Join(e.Names, ", "))
}

// UnsupportedFormatError reports an archive whose file-name suffix names no
// supported container encoding. The artifact cannot be audited, which is
// fatal to its gate call.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("archive %s cannot be analyzed, only .tar.xz and .tar files are supported", e.Path)
}

// BuildError reports a failed confined build. No retry, no partial-tier
// continuation.
type BuildError struct {
	PackageBase string
	Err         error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build failed for %s: %v", e.PackageBase, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }
