package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripVersionConstraint(t *testing.T) {
	assert.Equal(t, "glibc", StripVersionConstraint("glibc>=2.38"))
	assert.Equal(t, "openssl", StripVersionConstraint("openssl=3.0"))
	assert.Equal(t, "zlib", StripVersionConstraint("zlib<2"))
	assert.Equal(t, "curl", StripVersionConstraint("curl"))
}

func TestResolvedGraph_Missing(t *testing.T) {
	graph := &ResolvedGraph{
		Infos: map[string]PackageInfo{
			"foo": {Name: "foo"},
		},
		Depths: map[string]int{
			"foo":   0,
			"ghost": 1,
			"null":  2,
		},
	}

	assert.Equal(t, []string{"ghost", "null"}, graph.Missing())
}

func TestResolvedGraph_ArchiveWhitelist(t *testing.T) {
	graph := &ResolvedGraph{
		Infos: map[string]PackageInfo{
			"foo":    {Name: "foo", Version: "1.2-1"},
			"libbar": {Name: "libbar", Version: "0.9-2"},
		},
	}

	assert.Equal(t, []string{"foo-1.2-1", "libbar-0.9-2"}, graph.ArchiveWhitelist())
}
