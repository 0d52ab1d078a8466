// Package entities defines core domain models and data structures.
package entities

import (
	"fmt"
	"sort"
	"strings"
)

// PackageInfo is the remote metadata record for one buildable target.
// A single package base (build recipe) may produce several split targets,
// so PackageBase is many-to-one with Name.
type PackageInfo struct {
	Name        string
	PackageBase string
	Version     string
	Depends     []string
	MakeDepends []string
}

// AllDepends returns build-time and runtime dependency names combined.
func (p PackageInfo) AllDepends() []string {
	deps := make([]string, 0, len(p.Depends)+len(p.MakeDepends))
	deps = append(deps, p.Depends...)
	deps = append(deps, p.MakeDepends...)
	return deps
}

// ResolvedGraph is the output of dependency resolution for one run: the
// metadata for every source-build target, the set of dependencies the system
// package manager can satisfy directly, and each source-build target's
// distance from the requested roots.
type ResolvedGraph struct {
	Infos      map[string]PackageInfo
	PacmanDeps []string
	Depths     map[string]int
}

// Missing returns the sorted list of required targets for which no metadata
// record was found upstream. A non-empty result is fatal to the run.
func (g *ResolvedGraph) Missing() []string {
	var missing []string
	for name := range g.Depths {
		if _, ok := g.Infos[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// ArchiveWhitelist returns the expected-artifact-name prefixes for every
// resolved target, computed as "{target}-{version}". Build output files whose
// names are not prefixed by one of these are excluded from audit and install.
func (g *ResolvedGraph) ArchiveWhitelist() []string {
	whitelist := make([]string, 0, len(g.Infos))
	for name, info := range g.Infos {
		whitelist = append(whitelist, fmt.Sprintf("%s-%s", name, info.Version))
	}
	sort.Strings(whitelist)
	return whitelist
}

// TargetFile associates one checked artifact file with the target it was
// built for, for submission to the privileged installer.
type TargetFile struct {
	Target string
	Path   string
}

// StripVersionConstraint removes a trailing version requirement from a
// dependency name, e.g. "glibc>=2.38" becomes "glibc".
func StripVersionConstraint(dep string) string {
	if i := strings.IndexAny(dep, "<>="); i >= 0 {
		return dep[:i]
	}
	return dep
}
