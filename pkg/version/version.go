// Package version provides CWMP protocol version parsing, comparison and the
// mapping between versions and their wire namespaces.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
)

// Current is the newest CWMP version implemented by this library.
const Current = "1.4"

// namespacePrefix is the URN prefix shared by every CWMP namespace.
const namespacePrefix = "urn:dslforum-org:cwmp-"

// SpecVersion represents a parsed "major.minor" CWMP version.
type SpecVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (SpecVersion, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 2 {
		return SpecVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return SpecVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return SpecVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return SpecVersion{Major: uint16(major), Minor: uint16(minor)}, nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) SpecVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseList parses the comma separated list carried by the
// SupportedCWMPVersions header, e.g. "1.0,1.1,1.2".
func ParseList(s string) ([]SpecVersion, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	out := make([]SpecVersion, 0, len(fields))
	for _, f := range fields {
		v, err := Parse(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// FormatList is the inverse of ParseList.
func FormatList(versions []SpecVersion) string {
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}

// String returns the version as "major.minor".
func (v SpecVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0 or 1 depending on whether v is older than, equal to
// or newer than other.
func (v SpecVersion) Compare(other SpecVersion) int {
	switch {
	case v.Major != other.Major:
		if v.Major < other.Major {
			return -1
		}
		return 1
	case v.Minor < other.Minor:
		return -1
	case v.Minor > other.Minor:
		return 1
	}
	return 0
}

// Compatible returns true if the other version has the same major version.
func (v SpecVersion) Compatible(other SpecVersion) bool {
	return v.Major == other.Major
}

// NamespaceURN returns the URN "urn:dslforum-org:cwmp-<major>-<minor>".
// Versions from 1.3 on keep the 1.2 namespace on the wire; use the
// version manifest for the namespace actually emitted.
func NamespaceURN(v SpecVersion) schema.Namespace {
	return schema.Namespace(fmt.Sprintf("%s%d-%d", namespacePrefix, v.Major, v.Minor))
}

// FromNamespace extracts the version encoded in a CWMP namespace URN.
func FromNamespace(ns schema.Namespace) (SpecVersion, error) {
	s := string(ns)
	if !strings.HasPrefix(s, namespacePrefix) {
		return SpecVersion{}, fmt.Errorf("not a CWMP namespace: %q", s)
	}
	suffix := s[len(namespacePrefix):]
	if suffix == "" {
		return SpecVersion{}, fmt.Errorf("empty version in namespace: %q", s)
	}
	return Parse(strings.Replace(suffix, "-", ".", 1))
}

// IsCWMPNamespace reports whether ns is a CWMP namespace URN.
func IsCWMPNamespace(ns schema.Namespace) bool {
	_, err := FromNamespace(ns)
	return err == nil
}
