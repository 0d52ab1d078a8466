package orchestrators

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ochairo/cauldron/internal/domain/entities"
	"github.com/ochairo/cauldron/internal/domain/interfaces/gateways"
	"github.com/ochairo/cauldron/internal/logging"
)

// DependencyResolver produces the transitive dependency graph for the
// requested targets.
type DependencyResolver interface {
	Resolve(ctx context.Context, targets []string) (*entities.ResolvedGraph, error)
}

// ArtifactGateway audits and collects one package base's build output.
type ArtifactGateway interface {
	CheckAndCollect(pkgBase string, whitelist []string) error
}

// InstallOptions carries the operator-facing install flags.
type InstallOptions struct {
	// Offline is propagated to the confined build.
	Offline bool

	// AsDeps marks even the requested roots as dependency installs.
	AsDeps bool
}

// InstallOrchestrator drives the full pipeline: resolution, confirmation,
// recipe review, tiered builds, artifact audits and depth-batched privileged
// installation. Any failing step aborts the whole run; nothing is retried.
type InstallOrchestrator struct {
	resolver DependencyResolver
	pm       gateways.PackageManager
	builder  gateways.Builder
	reviewer gateways.Reviewer
	gate     ArtifactGateway
	layout   gateways.Layout
	term     gateways.Terminal
	out      io.Writer
}

// NewInstallOrchestrator creates the top-level install driver writing
// operator prompts to out.
func NewInstallOrchestrator(
	resolver DependencyResolver,
	pm gateways.PackageManager,
	builder gateways.Builder,
	reviewer gateways.Reviewer,
	gate ArtifactGateway,
	layout gateways.Layout,
	term gateways.Terminal,
	out io.Writer,
) *InstallOrchestrator {
	return &InstallOrchestrator{
		resolver: resolver,
		pm:       pm,
		builder:  builder,
		reviewer: reviewer,
		gate:     gate,
		layout:   layout,
		term:     term,
		out:      out,
	}
}

// plannedBase is one package base scheduled for build, positioned at the
// maximum depth among its reachable targets so it is built exactly once, in
// the most conservative tier.
type plannedBase struct {
	base   string
	target string // representative split target for install bookkeeping
	depth  int
}

// Install runs the pipeline for the requested targets.
func (o *InstallOrchestrator) Install(ctx context.Context, targets []string, opts InstallOptions) error {
	logger := logging.GetLogger("install")

	// Step 1: resolve the full dependency graph and fail fast on anything
	// the metadata source does not know.
	graph, err := o.resolver.Resolve(ctx, targets)
	if err != nil {
		return err
	}
	if missing := graph.Missing(); len(missing) > 0 {
		return &entities.NotFoundError{Names: missing}
	}

	plan := planBases(graph)

	// Step 2: summary and explicit confirmation.
	if err := o.confirmInstall(graph, plan); err != nil {
		return err
	}

	// Step 3: every recipe about to be built must have been human-reviewed.
	for _, pb := range plan {
		if err := o.reviewer.EnsureReviewed(ctx, pb.base); err != nil {
			return err
		}
	}

	// Step 4: system-package-manager dependencies first.
	if err := o.pm.InstallPackages(ctx, graph.PacmanDeps); err != nil {
		return err
	}

	// Steps 5-10: process tiers in strictly descending depth order. A tier's
	// install must complete before the next (shallower) tier builds, since
	// shallower packages may depend on what was just installed.
	whitelist := graph.ArchiveWhitelist()
	for _, tier := range groupTiers(plan) {
		logger.Info().Int("depth", tier.depth).Int("packageBases", len(tier.bases)).Msg("processing tier")

		for _, pb := range tier.bases {
			if err := o.buildBase(ctx, pb.base, opts.Offline); err != nil {
				return err
			}
		}
		for _, pb := range tier.bases {
			if err := o.gate.CheckAndCollect(pb.base, whitelist); err != nil {
				return err
			}
		}

		files, err := o.collectChecked(tier.bases)
		if err != nil {
			return err
		}
		// Depth-0 targets were explicitly requested and are never marked as
		// mere dependencies unless the operator asked for that.
		asDeps := opts.AsDeps || tier.depth > 0
		if err := o.pm.InstallFiles(ctx, files, asDeps); err != nil {
			return err
		}
	}
	return nil
}

// confirmInstall presents the install summary and blocks until the operator
// accepts. The detailed listing is skipped when only a single package is
// involved; the confirmation itself never is.
func (o *InstallOrchestrator) confirmInstall(graph *entities.ResolvedGraph, plan []plannedBase) error {
	if len(graph.PacmanDeps)+len(graph.Depths) > 1 {
		if len(graph.PacmanDeps) > 0 {
			fmt.Fprintln(o.out, "\nIn order to install all targets, the following system packages will be installed:")
			for _, dep := range graph.PacmanDeps {
				fmt.Fprintf(o.out, "  %s\n", dep)
			}
		}
		fmt.Fprintln(o.out, "And the following package bases will be built and installed:")
		for _, pb := range plan {
			fmt.Fprintf(o.out, "  %s (depth %d)\n", pb.base, pb.depth)
		}
		fmt.Fprintln(o.out)
	}
	for {
		fmt.Fprint(o.out, "Proceed? [o]=ok, [q]=abort. ")
		switch o.term.ReadLine() {
		case "o":
			return nil
		case "q":
			return entities.ErrOperatorAborted
		}
	}
}

// buildBase discards any stale build directory, materializes a fresh copy of
// the reviewed recipe, strips version-control metadata from the copy and runs
// the confined build against it.
func (o *InstallOrchestrator) buildBase(ctx context.Context, pkgBase string, offline bool) error {
	reviewDir := o.layout.ReviewDir(pkgBase)
	buildDir := o.layout.BuildDir(pkgBase)

	if err := os.RemoveAll(buildDir); err != nil {
		return fmt.Errorf("failed to remove stale build dir %s: %w", buildDir, err)
	}
	if err := copyTree(reviewDir, buildDir); err != nil {
		return fmt.Errorf("failed to copy reviewed recipe into %s: %w", buildDir, err)
	}
	if err := os.RemoveAll(filepath.Join(buildDir, ".git")); err != nil {
		return fmt.Errorf("failed to strip VCS metadata in %s: %w", buildDir, err)
	}

	if err := o.builder.Build(ctx, buildDir, offline); err != nil {
		return &entities.BuildError{PackageBase: pkgBase, Err: err}
	}
	return nil
}

// collectChecked gathers every checked artifact of the tier, associating each
// file with its package base's representative target. All of a base's
// artifacts are bound to that one target name, which is only used for install
// bookkeeping. Signature companions stay in the checked dir but are never
// submitted as packages; the installer finds them next to their artifact.
func (o *InstallOrchestrator) collectChecked(bases []plannedBase) ([]entities.TargetFile, error) {
	var files []entities.TargetFile
	for _, pb := range bases {
		checkedDir := o.layout.CheckedDir(pb.base)
		entries, err := os.ReadDir(checkedDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read checked dir %s: %w", checkedDir, err)
		}
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), signatureSuffix) {
				continue
			}
			files = append(files, entities.TargetFile{
				Target: pb.target,
				Path:   filepath.Join(checkedDir, entry.Name()),
			})
		}
	}
	return files, nil
}

// planBases deduplicates resolved targets by package base, keeping an
// explicit base-to-maximum-depth mapping so every recipe is built exactly
// once per run, at its deepest position. The representative target is the
// lexicographically smallest split at that depth, for deterministic output.
func planBases(graph *entities.ResolvedGraph) []plannedBase {
	baseDepth := make(map[string]int)
	baseTarget := make(map[string]string)
	for target, depth := range graph.Depths {
		base := graph.Infos[target].PackageBase
		current, seen := baseDepth[base]
		switch {
		case !seen, depth > current:
			baseDepth[base] = depth
			baseTarget[base] = target
		case depth == current && target < baseTarget[base]:
			baseTarget[base] = target
		}
	}

	plan := make([]plannedBase, 0, len(baseDepth))
	for base, depth := range baseDepth {
		plan = append(plan, plannedBase{base: base, target: baseTarget[base], depth: depth})
	}
	sort.Slice(plan, func(i, j int) bool {
		if plan[i].depth != plan[j].depth {
			return plan[i].depth > plan[j].depth
		}
		return plan[i].base < plan[j].base
	})
	return plan
}

// tier is the set of package bases sharing one depth, processed as a unit so
// one privileged-install call covers the whole tier.
type tier struct {
	depth int
	bases []plannedBase
}

// groupTiers batches a descending-depth plan into tiers.
func groupTiers(plan []plannedBase) []tier {
	var tiers []tier
	for _, pb := range plan {
		if len(tiers) == 0 || tiers[len(tiers)-1].depth != pb.depth {
			tiers = append(tiers, tier{depth: pb.depth})
		}
		tiers[len(tiers)-1].bases = append(tiers[len(tiers)-1].bases, pb)
	}
	return tiers
}

// copyTree copies a directory of regular files, preserving permissions.
// Recipe checkouts contain no symlinks worth preserving.
func copyTree(from, to string) error {
	return filepath.Walk(from, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(from, path)
		if err != nil {
			return err
		}
		target := filepath.Join(to, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm())
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(from, to string, mode os.FileMode) error {
	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(to, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
