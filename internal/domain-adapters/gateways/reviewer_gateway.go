package gateways

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ochairo/cauldron/internal/domain/entities"
	"github.com/ochairo/cauldron/internal/domain/interfaces/gateways"
	"github.com/ochairo/cauldron/internal/logging"
)

// reviewedSentinel marks a recipe directory as already human-approved.
const reviewedSentinel = ".reviewed"

// SnapshotFetcher materializes a package base's recipe snapshot into a
// directory.
type SnapshotFetcher interface {
	Fetch(ctx context.Context, pkgBase, dir string) error
}

// ReviewerGateway ensures a human has reviewed a build recipe before its
// first build. Approval is recorded with a sentinel file in the review
// directory, making the check idempotent across runs.
type ReviewerGateway struct {
	layout    gateways.Layout
	snapshots SnapshotFetcher
	term      gateways.Terminal
	out       io.Writer
}

// NewReviewerGateway creates a recipe reviewer writing prompts to out.
func NewReviewerGateway(layout gateways.Layout, snapshots SnapshotFetcher, term gateways.Terminal, out io.Writer) *ReviewerGateway {
	return &ReviewerGateway{
		layout:    layout,
		snapshots: snapshots,
		term:      term,
		out:       out,
	}
}

// EnsureReviewed fetches the recipe snapshot if the review directory is
// missing and blocks on the interactive approval loop. Already-approved
// recipes pass through without prompting.
func (r *ReviewerGateway) EnsureReviewed(ctx context.Context, pkgBase string) error {
	dir := r.layout.ReviewDir(pkgBase)
	sentinel := filepath.Join(dir, reviewedSentinel)
	if _, err := os.Stat(sentinel); err == nil {
		logger := logging.GetLogger("review")
		logger.Debug().Str("pkgBase", pkgBase).Msg("recipe already reviewed")
		return nil
	}

	if empty, err := isMissingOrEmpty(dir); err != nil {
		return err
	} else if empty {
		if err := r.snapshots.Fetch(ctx, pkgBase, dir); err != nil {
			return err
		}
	}

	for {
		fmt.Fprintf(r.out, "Review recipe for %s in %s.\n", pkgBase, dir)
		fmt.Fprint(r.out, "[l]=list recipe files, [t]=run shell to inspect, [o]=ok, approve, [q]=abort. ")
		switch r.term.ReadLine() {
		case "l":
			r.listFiles(dir)
		case "t":
			fmt.Fprintln(r.out, "Exit the shell to return to the review...")
			if err := r.term.RunShell(dir); err != nil {
				fmt.Fprintf(r.out, "failed to run inspection shell: %v\n", err)
			}
		case "o":
			if err := os.WriteFile(sentinel, nil, 0o644); err != nil {
				return fmt.Errorf("failed to record review approval for %s: %w", pkgBase, err)
			}
			return nil
		case "q":
			return entities.ErrOperatorAborted
		}
	}
}

func (r *ReviewerGateway) listFiles(dir string) {
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		fmt.Fprintln(r.out, rel)
		return nil
	})
}

func isMissingOrEmpty(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read review dir %s: %w", dir, err)
	}
	return len(entries) == 0, nil
}
