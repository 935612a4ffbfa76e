package version

import (
	"embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
)

//go:embed specs/*.yaml
var specFS embed.FS

// SpecManifest describes what a CWMP version adds to the protocol.
type SpecManifest struct {
	Version     string           `yaml:"version"`
	Description string           `yaml:"description"`
	Namespace   schema.Namespace `yaml:"namespace"`
	Headers     []string         `yaml:"headers"`
	Methods     MethodSpec       `yaml:"methods"`

	version SpecVersion
}

// MethodSpec lists the RPC methods introduced by a version, split by the
// side that implements them.
type MethodSpec struct {
	CPE []string `yaml:"cpe"`
	ACS []string `yaml:"acs"`
}

// ---------------------------------------------------------------------------
// Cache
// ---------------------------------------------------------------------------

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*SpecManifest)
)

// LoadSpec loads a spec manifest by version string (e.g. "1.2").
func LoadSpec(ver string) (*SpecManifest, error) {
	cacheMu.RLock()
	if s, ok := cache[ver]; ok {
		cacheMu.RUnlock()
		return s, nil
	}
	cacheMu.RUnlock()

	data, err := specFS.ReadFile("specs/" + ver + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("version manifest %q not found: %w", ver, err)
	}

	m, err := parseManifest(data, ver)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	cache[ver] = m
	cacheMu.Unlock()

	return m, nil
}

// parseManifest decodes the manifest stored for ver and checks that it
// declares a well-formed version equal to ver.
func parseManifest(data []byte, ver string) (*SpecManifest, error) {
	var m SpecManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %q: %w", ver, err)
	}
	if m.Version != ver {
		return nil, fmt.Errorf("parsing manifest %q: manifest declares version %q", ver, m.Version)
	}
	v, err := Parse(m.Version)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %q: %w", ver, err)
	}
	m.version = v
	return &m, nil
}

// LoadCurrentSpec loads the manifest for the current protocol version.
func LoadCurrentSpec() (*SpecManifest, error) {
	return LoadSpec(Current)
}

// AvailableSpecs returns the version strings of all embedded spec manifests,
// oldest first.
func AvailableSpecs() ([]string, error) {
	entries, err := specFS.ReadDir("specs")
	if err != nil {
		return nil, fmt.Errorf("reading specs directory: %w", err)
	}

	var versions []SpecVersion
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") {
			continue
		}
		v, err := Parse(strings.TrimSuffix(name, ".yaml"))
		if err != nil {
			return nil, fmt.Errorf("manifest file %s: %w", name, err)
		}
		versions = append(versions, v)
	}
	slices.SortFunc(versions, SpecVersion.Compare)

	out := make([]string, len(versions))
	for i, v := range versions {
		out[i] = v.String()
	}
	return out, nil
}

// LoadAll loads every embedded manifest, oldest first.
func LoadAll() ([]*SpecManifest, error) {
	versions, err := AvailableSpecs()
	if err != nil {
		return nil, err
	}
	out := make([]*SpecManifest, 0, len(versions))
	for _, v := range versions {
		m, err := LoadSpec(v)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Namespaces returns the distinct wire namespaces of all versions, oldest
// first.
func Namespaces() ([]schema.Namespace, error) {
	all, err := LoadAll()
	if err != nil {
		return nil, err
	}
	var out []schema.Namespace
	for _, m := range all {
		if !slices.Contains(out, m.Namespace) {
			out = append(out, m.Namespace)
		}
	}
	return out, nil
}

// ForNamespace returns the oldest version whose wire namespace is ns.
func ForNamespace(ns schema.Namespace) (*SpecManifest, error) {
	all, err := LoadAll()
	if err != nil {
		return nil, err
	}
	for _, m := range all {
		if m.Namespace == ns {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no CWMP version uses namespace %q", ns)
}

// SpecVersion returns the parsed manifest version.
func (s *SpecManifest) SpecVersion() SpecVersion {
	return s.version
}

// DeclaresHeader reports whether the version introduces the header.
func (s *SpecManifest) DeclaresHeader(name string) bool {
	return slices.Contains(s.Headers, name)
}

// DeclaresMethod reports whether the version introduces the RPC method,
// on either side.
func (s *SpecManifest) DeclaresMethod(name string) bool {
	return slices.Contains(s.Methods.CPE, name) || slices.Contains(s.Methods.ACS, name)
}
