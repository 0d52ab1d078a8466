package entities

import "strings"

// InstallScriptName is the distinguished archive member whose contents are an
// install-time script executed by the system package manager.
const InstallScriptName = ".INSTALL"

// permBits covers the standard rwxrwxrwx range. Any mode value above it
// carries setuid, setgid or sticky bits.
const permBits = 0o777

// ArchiveReport is the transient classification of one archive's members,
// produced by a single audit pass and discarded once the interactive review
// exits.
type ArchiveReport struct {
	Path            string
	AllFiles        []string
	ExecutableFiles []string
	PrivilegedFiles []string
	InstallScript   string
}

// Record classifies one archive member by path and raw permission mode.
func (r *ArchiveReport) Record(path string, mode int64) {
	if IsNormalPath(path) {
		r.AllFiles = append(r.AllFiles, path)
		if IsExecutableMode(mode) {
			r.ExecutableFiles = append(r.ExecutableFiles, path)
		}
	}
	// Privileged bits are flagged even on hidden or directory entries.
	if IsPrivilegedMode(mode) {
		r.PrivilegedFiles = append(r.PrivilegedFiles, path)
	}
}

// HasInstallScript reports whether an install-time script was captured.
func (r *ArchiveReport) HasInstallScript() bool {
	return r.InstallScript != ""
}

// HasPrivilegedFiles reports whether any member carries setuid/setgid/sticky bits.
func (r *ArchiveReport) HasPrivilegedFiles() bool {
	return len(r.PrivilegedFiles) > 0
}

// IsNormalPath reports whether a member path names a regular visible file:
// not a directory entry and not a hidden/metadata path.
func IsNormalPath(path string) bool {
	return !strings.HasSuffix(path, "/") && !strings.HasPrefix(path, ".")
}

// IsExecutableMode reports whether any of the conventional execute bits are set.
func IsExecutableMode(mode int64) bool {
	return mode&0o111 != 0
}

// IsPrivilegedMode reports whether the raw mode value exceeds the standard
// permission-bit range, i.e. setuid/setgid/sticky bits are present.
func IsPrivilegedMode(mode int64) bool {
	return mode > permBits
}
