// Package services holds the pure pipeline logic: dependency resolution and
// the interactive archive audit.
package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/ochairo/cauldron/internal/domain/entities"
	"github.com/ochairo/cauldron/internal/domain/interfaces/gateways"
	"github.com/ochairo/cauldron/internal/logging"
)

// Resolver discovers the full transitive dependency set of the requested
// targets from the remote metadata source, partitioning it into dependencies
// the system package manager can satisfy and targets that must be built from
// source, and recording each source target's distance from the roots.
type Resolver struct {
	metadata gateways.MetadataGateway
	pm       gateways.PackageManager
}

// NewResolver creates a new dependency resolver.
func NewResolver(metadata gateways.MetadataGateway, pm gateways.PackageManager) *Resolver {
	return &Resolver{
		metadata: metadata,
		pm:       pm,
	}
}

// Resolve walks the dependency graph breadth-first from the requested
// targets. Depths are kept in an explicit target-to-depth mapping updated by
// taking the maximum as each edge is visited, so a target reachable through
// multiple paths settles at its most conservative (deepest) position. Targets
// the metadata source does not know stay in the depth map without a metadata
// record; callers detect them via ResolvedGraph.Missing.
func (r *Resolver) Resolve(ctx context.Context, targets []string) (*entities.ResolvedGraph, error) {
	logger := logging.GetLogger("resolver")

	graph := &entities.ResolvedGraph{
		Infos:  make(map[string]entities.PackageInfo),
		Depths: make(map[string]int),
	}
	pacmanSet := make(map[string]struct{})
	queried := make(map[string]struct{})

	work := make([]string, 0, len(targets))
	for _, t := range targets {
		if _, seen := graph.Depths[t]; seen {
			continue
		}
		graph.Depths[t] = 0
		work = append(work, t)
	}

	for len(work) > 0 {
		var need []string
		for _, name := range work {
			if _, done := queried[name]; done {
				continue
			}
			queried[name] = struct{}{}
			need = append(need, name)
		}
		if len(need) > 0 {
			infos, err := r.metadata.Info(ctx, need)
			if err != nil {
				return nil, &entities.ResolutionError{Err: err}
			}
			for name, info := range infos {
				graph.Infos[name] = info
			}
		}

		var next []string
		for _, name := range work {
			info, ok := graph.Infos[name]
			if !ok {
				// Not found upstream; reported in aggregate by the caller.
				continue
			}
			childDepth := graph.Depths[name] + 1
			for _, dep := range info.AllDepends() {
				dep = entities.StripVersionConstraint(dep)
				if _, satisfiable := pacmanSet[dep]; satisfiable {
					continue
				}
				if current, known := graph.Depths[dep]; known {
					if childDepth > current {
						if childDepth > len(graph.Depths)+len(targets) {
							return nil, &entities.ResolutionError{
								Err: fmt.Errorf("dependency cycle involving %s", dep),
							}
						}
						graph.Depths[dep] = childDepth
						// Depth increase propagates to the subtree.
						next = append(next, dep)
					}
					continue
				}
				ok, err := r.pm.IsSatisfiable(ctx, dep)
				if err != nil {
					return nil, &entities.ResolutionError{Err: err}
				}
				if ok {
					pacmanSet[dep] = struct{}{}
					graph.PacmanDeps = append(graph.PacmanDeps, dep)
					continue
				}
				logger.Debug().Str("target", dep).Int("depth", childDepth).Msg("source-build dependency discovered")
				graph.Depths[dep] = childDepth
				next = append(next, dep)
			}
		}
		work = next
	}

	sort.Strings(graph.PacmanDeps)
	logger.Debug().
		Int("sourceTargets", len(graph.Depths)).
		Int("pacmanDeps", len(graph.PacmanDeps)).
		Msg("resolution complete")
	return graph, nil
}
