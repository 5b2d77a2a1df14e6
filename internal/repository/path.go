package repository

import (
	"path/filepath"
	"strings"
)

// reservedNames are file names the repository engine manages itself; a
// caller-supplied path may never resolve to one of them.
var reservedNames = map[string]bool{
	cryptoConfigFileName: true,
	keystoreFileName:     true,
	journalFileName:      true,
	lockFileName:         true,
}

// Path resolves a caller-supplied relative path against a repository's
// working directory, rejecting traversal outside it and collisions with
// the repository's own reserved files.
type Path struct {
	relative string
	absolute string
}

// NewPath validates relative against workdir and returns the resolved Path.
func NewPath(workdir, relative string) (Path, error) {
	clean := filepath.Clean(relative)
	if clean == "." || clean == "" {
		clean = ""
	}

	if filepath.IsAbs(clean) {
		return Path{}, invalidArgument(nil, "path %q must be relative", relative)
	}

	absolute := filepath.Join(workdir, clean)
	rel, err := filepath.Rel(workdir, absolute)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Path{}, invalidArgument(nil, "path %q escapes the repository working directory", relative)
	}

	base := filepath.Base(clean)
	if reservedNames[base] {
		return Path{}, invalidArgument(nil, "path %q collides with a reserved repository file", relative)
	}

	return Path{relative: clean, absolute: absolute}, nil
}

// Relative returns the path as given relative to the working directory.
func (p Path) Relative() string {
	return p.relative
}

// Absolute returns the path joined with the repository's working directory.
func (p Path) Absolute() string {
	return p.absolute
}
