// Package orchestrators coordinates the install pipeline across the domain
// services and external collaborators.
package orchestrators

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/cauldron/internal/domain/interfaces/gateways"
	"github.com/ochairo/cauldron/internal/logging"
)

// ArchiveAuditor runs the interactive audit over one archive file.
type ArchiveAuditor interface {
	Audit(path string) error
}

// SignatureVerifier checks a detached signature against a configured keyring.
type SignatureVerifier interface {
	VerifyDetached(dataPath, sigPath string) error
}

// signatureSuffix marks detached signature companions produced alongside
// artifacts. They are verified rather than audited.
const signatureSuffix = ".sig"

// ArtifactGate filters one package base's build output against the
// expected-artifact-name whitelist, forces an audit of every kept archive and
// only then relocates the batch into the checked directory. A rejected audit
// moves nothing.
type ArtifactGate struct {
	layout   gateways.Layout
	auditor  ArchiveAuditor
	verifier SignatureVerifier // nil when no keyring is configured
}

// NewArtifactGate creates an artifact gate. verifier may be nil.
func NewArtifactGate(layout gateways.Layout, auditor ArchiveAuditor, verifier SignatureVerifier) *ArtifactGate {
	return &ArtifactGate{
		layout:   layout,
		auditor:  auditor,
		verifier: verifier,
	}
}

// CheckAndCollect audits the whitelisted build output of pkgBase and moves it
// into the checked directory, whose previous contents are destroyed. The
// build directory itself is left untouched.
func (g *ArtifactGate) CheckAndCollect(pkgBase string, whitelist []string) error {
	logger := logging.GetLogger("gate")
	buildDir := g.layout.BuildDir(pkgBase)

	entries, err := os.ReadDir(buildDir)
	if err != nil {
		return fmt.Errorf("failed to read build dir %s: %w", buildDir, err)
	}

	var kept []string
	for _, entry := range entries {
		if entry.IsDir() || !matchesWhitelist(entry.Name(), whitelist) {
			continue
		}
		kept = append(kept, entry.Name())
	}
	logger.Debug().Str("pkgBase", pkgBase).Strs("files", kept).Msg("artifacts kept for audit")

	// Every file must pass audit before any file is moved.
	for _, name := range kept {
		if strings.HasSuffix(name, signatureSuffix) {
			continue
		}
		if err := g.auditor.Audit(filepath.Join(buildDir, name)); err != nil {
			return err
		}
	}

	for _, name := range kept {
		if !strings.HasSuffix(name, signatureSuffix) {
			continue
		}
		if g.verifier == nil {
			logger.Warn().Str("file", name).Msg("no keyring configured, signature companion passes through unverified")
			continue
		}
		data := filepath.Join(buildDir, strings.TrimSuffix(name, signatureSuffix))
		if err := g.verifier.VerifyDetached(data, filepath.Join(buildDir, name)); err != nil {
			return fmt.Errorf("signature verification failed for %s: %w", data, err)
		}
	}

	staged, err := newCheckedSet(g.layout.CheckedDir(pkgBase))
	if err != nil {
		return err
	}
	for _, name := range kept {
		if err := staged.Admit(filepath.Join(buildDir, name)); err != nil {
			return err
		}
	}
	return nil
}

// checkedSet is the staged artifact set backing one package base's checked
// directory. Acquiring it destroys the previous batch; the directory holds
// only the latest verified set, never an accumulating history.
type checkedSet struct {
	dir string
}

func newCheckedSet(dir string) (*checkedSet, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to clear checked dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create checked dir %s: %w", dir, err)
	}
	return &checkedSet{dir: dir}, nil
}

// Admit moves an audited artifact into the set.
func (s *checkedSet) Admit(path string) error {
	to := filepath.Join(s.dir, filepath.Base(path))
	if err := os.Rename(path, to); err != nil {
		return fmt.Errorf("failed to move checked artifact %s to %s: %w", path, to, err)
	}
	return nil
}

func matchesWhitelist(name string, whitelist []string) bool {
	for _, prefix := range whitelist {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
