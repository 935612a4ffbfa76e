package cwmp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath is returned for a parameter path whose last segment is a
// wildcard.
var ErrInvalidPath = errors.New("invalid parameter path")

// PathKind classifies a parameter path.
type PathKind uint8

const (
	// PathFull names a single parameter.
	PathFull PathKind = iota
	// PathPartial ends in "." and names an object and everything below it.
	PathPartial
	// PathWildCard contains "*" instance placeholders.
	PathWildCard
	// PathInvalid marks a decoded path that ClassifyPath rejects. Decoding
	// keeps such paths so the receiver can answer with a fault.
	PathInvalid
)

// String returns the kind name.
func (k PathKind) String() string {
	switch k {
	case PathFull:
		return "Full"
	case PathPartial:
		return "Partial"
	case PathWildCard:
		return "WildCard"
	case PathInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// ClassifyPath classifies a parameter path. A path ending in "." is
// partial even when it contains a wildcard; otherwise a path containing "*"
// is a wildcard path. A path ending in "*" or "*." is invalid.
func ClassifyPath(path string) (PathKind, error) {
	if strings.HasSuffix(path, "*") || strings.HasSuffix(path, "*.") {
		return 0, fmt.Errorf("%w: %q ends with a wildcard", ErrInvalidPath, path)
	}
	switch {
	case strings.HasSuffix(path, "."):
		return PathPartial, nil
	case strings.Contains(path, "*"):
		return PathWildCard, nil
	default:
		return PathFull, nil
	}
}

// ParameterPath is a classified parameter path.
type ParameterPath struct {
	Path string
	Kind PathKind
}

// ParsePath classifies path.
func ParsePath(path string) (ParameterPath, error) {
	kind, err := ClassifyPath(path)
	if err != nil {
		return ParameterPath{}, err
	}
	return ParameterPath{Path: path, Kind: kind}, nil
}

// MustParsePath is like ParsePath but panics on an invalid path.
func MustParsePath(path string) ParameterPath {
	p, err := ParsePath(path)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePaths classifies every path.
func ParsePaths(paths ...string) ([]ParameterPath, error) {
	out := make([]ParameterPath, 0, len(paths))
	for _, p := range paths {
		pp, err := ParsePath(p)
		if err != nil {
			return nil, err
		}
		out = append(out, pp)
	}
	return out, nil
}

// String returns the path.
func (p ParameterPath) String() string { return p.Path }

// Valid reports whether the path passed classification.
func (p ParameterPath) Valid() bool { return p.Kind != PathInvalid }

// receivedPath classifies a path read off the wire. Classification is
// advisory here: an invalid path is kept with Kind PathInvalid.
func receivedPath(path string) ParameterPath {
	p, err := ParsePath(path)
	if err != nil {
		return ParameterPath{Path: path, Kind: PathInvalid}
	}
	return p
}
