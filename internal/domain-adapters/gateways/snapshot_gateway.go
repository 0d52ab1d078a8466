package gateways

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ochairo/cauldron/internal/logging"
)

// DefaultSnapshotURL is the recipe snapshot endpoint template; %s is the
// package base.
const DefaultSnapshotURL = "https://aur.archlinux.org/cgi-bin/cgit/aur.git/snapshot/%s.tar.gz"

// SnapshotGateway downloads and materializes a package base's build recipe
// snapshot for first-time review.
type SnapshotGateway struct {
	client      *http.Client
	urlTemplate string
}

// NewSnapshotGateway creates a snapshot fetcher. An empty template selects
// the default endpoint.
func NewSnapshotGateway(urlTemplate string) *SnapshotGateway {
	if urlTemplate == "" {
		urlTemplate = DefaultSnapshotURL
	}
	return &SnapshotGateway{
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
		urlTemplate: urlTemplate,
	}
}

// Fetch downloads the recipe snapshot for pkgBase and extracts it into dir.
// Snapshot archives carry a single top-level directory named after the
// package base, which is stripped during extraction.
func (g *SnapshotGateway) Fetch(ctx context.Context, pkgBase, dir string) error {
	snapshotURL := fmt.Sprintf(g.urlTemplate, pkgBase)
	logger := logging.GetLogger("snapshot")
	logger.Info().Str("pkgBase", pkgBase).Str("url", snapshotURL).Msg("fetching recipe snapshot")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, snapshotURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create snapshot request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("snapshot download failed for %s: %w", pkgBase, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("snapshot download for %s returned status %d", pkgBase, resp.StatusCode)
	}

	gzipReader, err := gzip.NewReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to open snapshot stream for %s: %w", pkgBase, err)
	}
	defer gzipReader.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create review dir %s: %w", dir, err)
	}
	return extractInto(tar.NewReader(gzipReader), dir)
}

// extractInto writes a recipe snapshot's members under dir, stripping the
// leading snapshot directory and rejecting any path escaping dir.
func extractInto(tarReader *tar.Reader, dir string) error {
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read snapshot member: %w", err)
		}

		name := stripLeadingDir(header.Name)
		if name == "" {
			continue
		}
		target := filepath.Join(dir, filepath.Clean(name))
		if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) {
			return fmt.Errorf("snapshot member %s escapes extraction dir", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create dir %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("failed to create dir for %s: %w", target, err)
			}
			mode := os.FileMode(header.Mode) & 0o777
			out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
			if _, err := io.Copy(out, tarReader); err != nil {
				out.Close()
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", target, err)
			}
		default:
			// Symlinks and specials have no business in a build recipe.
			continue
		}
	}
}

func stripLeadingDir(name string) string {
	name = strings.TrimPrefix(name, "./")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return ""
}
