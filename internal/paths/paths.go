// Package paths provides the on-disk directory layout the pipeline relies on:
// a per-package-base reviewed-recipe directory, a per-package-base build
// working directory, a per-package-base checked-artifacts directory and a
// shared build root. Locations follow the XDG Base Directory specification
// with environment overrides.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable overrides
const (
	// EnvDataDir overrides the XDG data directory
	EnvDataDir = "CAULDRON_DATA_DIR"

	// EnvCacheDir overrides the XDG cache directory
	EnvCacheDir = "CAULDRON_CACHE_DIR"

	// EnvConfigDir overrides the XDG config directory
	EnvConfigDir = "CAULDRON_CONFIG_DIR"
)

const (
	// AppDirName is the directory name for cauldron-specific files
	AppDirName = "cauldron"

	// ReviewsDir holds reviewed recipe checkouts, one per package base
	ReviewsDir = "reviews"

	// BuildRootDir is the shared parent of all build working directories
	BuildRootDir = "build"

	// CheckedDir holds audited artifacts, one subdirectory per package base
	CheckedDir = "checked"

	// ConfigFileName is the YAML configuration file name
	ConfigFileName = "config.yml"
)

// Paths resolves the directory layout for one run.
type Paths struct {
	dataDir   string
	cacheDir  string
	configDir string
}

// New creates a Paths instance from XDG base directories, respecting
// environment overrides.
func New() *Paths {
	p := &Paths{}

	if dataDir := os.Getenv(EnvDataDir); dataDir != "" {
		p.dataDir = dataDir
	} else {
		p.dataDir = filepath.Join(xdg.DataHome, AppDirName)
	}

	if cacheDir := os.Getenv(EnvCacheDir); cacheDir != "" {
		p.cacheDir = cacheDir
	} else {
		p.cacheDir = filepath.Join(xdg.CacheHome, AppDirName)
	}

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.configDir = configDir
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	return p
}

// ReviewDir returns the reviewed-recipe directory for a package base.
func (p *Paths) ReviewDir(pkgBase string) string {
	return filepath.Join(p.dataDir, ReviewsDir, pkgBase)
}

// BuildRoot returns the shared parent of all build working directories.
func (p *Paths) BuildRoot() string {
	return filepath.Join(p.cacheDir, BuildRootDir)
}

// BuildDir returns the build working directory for a package base. It is
// destroyed and recreated at the start of every build.
func (p *Paths) BuildDir(pkgBase string) string {
	return filepath.Join(p.BuildRoot(), pkgBase)
}

// CheckedDir returns the checked-artifacts directory for a package base. It
// holds only the latest audited batch, not an accumulating history.
func (p *Paths) CheckedDir(pkgBase string) string {
	return filepath.Join(p.dataDir, CheckedDir, pkgBase)
}

// ConfigFile returns the path of the YAML configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}
