// Package gateways implements the pipeline's external collaborators: the
// remote metadata client, the system package manager, the confined build
// executor, archive walking, recipe review and the operator terminal.
package gateways

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/ochairo/cauldron/internal/domain/entities"
)

// TarWalker enumerates archive members and their permission modes. Exactly
// two container encodings are supported: a plain tar and its xz-compressed
// variant. Any other suffix is a usage error, not a panic.
type TarWalker struct{}

// NewTarWalker creates a new tar walker.
func NewTarWalker() *TarWalker {
	return &TarWalker{}
}

// Walk opens the archive at path, classifies every member and captures the
// install-time script if one is present.
func (w *TarWalker) Walk(path string) (*entities.ArchiveReport, error) {
	var compressed bool
	switch {
	case strings.HasSuffix(path, ".tar.xz"):
		compressed = true
	case strings.HasSuffix(path, ".tar"):
		compressed = false
	default:
		return nil, &entities.UnsupportedFormatError{Path: path}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer f.Close()

	var reader io.Reader = f
	if compressed {
		xzReader, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open xz stream in %s: %w", path, err)
		}
		reader = xzReader
	}

	report := &entities.ArchiveReport{Path: path}
	tarReader := tar.NewReader(reader)
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read archive member in %s: %w", path, err)
		}

		report.Record(header.Name, header.Mode)

		if header.Name == entities.InstallScriptName {
			contents, err := io.ReadAll(tarReader)
			if err != nil {
				return nil, fmt.Errorf("failed to read install script from %s: %w", path, err)
			}
			report.InstallScript = string(contents)
		}
	}

	return report, nil
}
