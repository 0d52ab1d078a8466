package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/cauldron/internal/domain/entities"
)

// Mock implementations for testing
type mockMetadata struct {
	packages map[string]entities.PackageInfo
	err      error
	queries  [][]string
}

func (m *mockMetadata) Info(_ context.Context, names []string) (map[string]entities.PackageInfo, error) {
	m.queries = append(m.queries, names)
	if m.err != nil {
		return nil, m.err
	}
	result := make(map[string]entities.PackageInfo)
	for _, name := range names {
		if info, ok := m.packages[name]; ok {
			result[name] = info
		}
	}
	return result, nil
}

type mockPackageManager struct {
	satisfiable map[string]bool
	probeErr    error

	installedPackages [][]string
	installedFiles    []installFilesCall
}

type installFilesCall struct {
	files  []entities.TargetFile
	asDeps bool
}

func (m *mockPackageManager) IsSatisfiable(_ context.Context, name string) (bool, error) {
	if m.probeErr != nil {
		return false, m.probeErr
	}
	return m.satisfiable[name], nil
}

func (m *mockPackageManager) InstallPackages(_ context.Context, names []string) error {
	if len(names) > 0 {
		m.installedPackages = append(m.installedPackages, names)
	}
	return nil
}

func (m *mockPackageManager) InstallFiles(_ context.Context, files []entities.TargetFile, asDeps bool) error {
	m.installedFiles = append(m.installedFiles, installFilesCall{files: files, asDeps: asDeps})
	return nil
}

func pkg(name, base, version string, depends ...string) entities.PackageInfo {
	return entities.PackageInfo{
		Name:        name,
		PackageBase: base,
		Version:     version,
		Depends:     depends,
	}
}

func TestResolver_PartitionsAndDepths(t *testing.T) {
	metadata := &mockMetadata{packages: map[string]entities.PackageInfo{
		"foo":    pkg("foo", "foo", "1.0-1", "libbar", "glibc"),
		"libbar": pkg("libbar", "libbar", "2.0-1", "glibc"),
	}}
	pm := &mockPackageManager{satisfiable: map[string]bool{"glibc": true}}

	graph, err := NewResolver(metadata, pm).Resolve(context.Background(), []string{"foo"})

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"foo": 0, "libbar": 1}, graph.Depths)
	assert.Equal(t, []string{"glibc"}, graph.PacmanDeps)
	assert.Empty(t, graph.Missing())
	assert.Equal(t, "libbar", graph.Infos["libbar"].PackageBase)
}

func TestResolver_MaxDepthAcrossPaths(t *testing.T) {
	// shared is reachable at depth 1 via foo and at depth 2 via foo->mid,
	// and must settle at the deeper position.
	metadata := &mockMetadata{packages: map[string]entities.PackageInfo{
		"foo":    pkg("foo", "foo", "1.0-1", "shared", "mid"),
		"mid":    pkg("mid", "mid", "1.0-1", "shared"),
		"shared": pkg("shared", "shared", "1.0-1"),
	}}
	pm := &mockPackageManager{}

	graph, err := NewResolver(metadata, pm).Resolve(context.Background(), []string{"foo"})

	require.NoError(t, err)
	assert.Equal(t, 2, graph.Depths["shared"])
	assert.Equal(t, 1, graph.Depths["mid"])
}

func TestResolver_VersionConstraintsStripped(t *testing.T) {
	metadata := &mockMetadata{packages: map[string]entities.PackageInfo{
		"foo": pkg("foo", "foo", "1.0-1", "glibc>=2.38"),
	}}
	pm := &mockPackageManager{satisfiable: map[string]bool{"glibc": true}}

	graph, err := NewResolver(metadata, pm).Resolve(context.Background(), []string{"foo"})

	require.NoError(t, err)
	assert.Equal(t, []string{"glibc"}, graph.PacmanDeps)
}

func TestResolver_MissingTargetsSurvive(t *testing.T) {
	metadata := &mockMetadata{packages: map[string]entities.PackageInfo{
		"foo": pkg("foo", "foo", "1.0-1", "ghost"),
	}}
	pm := &mockPackageManager{}

	graph, err := NewResolver(metadata, pm).Resolve(context.Background(), []string{"foo"})

	require.NoError(t, err)
	assert.Equal(t, []string{"ghost"}, graph.Missing())
}

func TestResolver_MetadataFailureIsResolutionError(t *testing.T) {
	metadata := &mockMetadata{err: errors.New("endpoint unreachable")}
	pm := &mockPackageManager{}

	_, err := NewResolver(metadata, pm).Resolve(context.Background(), []string{"foo"})

	var resErr *entities.ResolutionError
	require.ErrorAs(t, err, &resErr)
}

func TestResolver_CycleDetected(t *testing.T) {
	metadata := &mockMetadata{packages: map[string]entities.PackageInfo{
		"a": pkg("a", "a", "1.0-1", "b"),
		"b": pkg("b", "b", "1.0-1", "a"),
	}}
	pm := &mockPackageManager{}

	_, err := NewResolver(metadata, pm).Resolve(context.Background(), []string{"a"})

	var resErr *entities.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Contains(t, err.Error(), "cycle")
}
