package inspect

import (
	"errors"
	"testing"

	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
	"github.com/cwmp-protocol/cwmp-go/pkg/unify"
	"github.com/cwmp-protocol/cwmp-go/pkg/version"
)

// newTestInspector builds an inspector over the embedded canonical graph.
func newTestInspector(t *testing.T) *Inspector {
	t.Helper()
	catalog, err := unify.Default()
	if err != nil {
		t.Fatalf("unify.Default: %v", err)
	}
	namespaces, err := version.Namespaces()
	if err != nil {
		t.Fatalf("version.Namespaces: %v", err)
	}
	insp, err := NewInspector(catalog.Graph(), namespaces)
	if err != nil {
		t.Fatalf("NewInspector: %v", err)
	}
	return insp
}

func resolve(t *testing.T, insp *Inspector, path string) *NodeInfo {
	t.Helper()
	p, err := ParsePath(path)
	if err != nil {
		t.Fatalf("ParsePath(%q): %v", path, err)
	}
	info, err := insp.Resolve(p)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", path, err)
	}
	return info
}

func TestNewInspector_RawGraph(t *testing.T) {
	raw, err := version.RawGraph()
	if err != nil {
		t.Fatalf("RawGraph: %v", err)
	}
	if _, err := NewInspector(raw, nil); err == nil {
		t.Error("NewInspector should reject a graph that was not unified")
	}
}

func TestInspectorAlternatives(t *testing.T) {
	insp := newTestInspector(t)

	headers := insp.Alternatives(HolderHeader)
	var names []string
	for _, h := range headers {
		names = append(names, h.Ident.Name)
	}
	want := []string{"ID", "SessionTimeout", "SupportedCWMPVersions", "UseCWMPVersion"}
	if len(names) != len(want) {
		t.Fatalf("header alternatives = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("header alternative %d = %q, want %q", i, names[i], want[i])
		}
	}

	if got := len(insp.Alternatives(HolderBody)); got != 35 {
		t.Errorf("body alternatives = %d, want 35", got)
	}
}

func TestInspectorResolveElement(t *testing.T) {
	insp := newTestInspector(t)

	info := resolve(t, insp, "Body/SetParameterValues")
	if info.Variant != schema.VariantComplexType {
		t.Errorf("Variant = %v, want ComplexType", info.Variant)
	}
	if info.IsArray() {
		t.Error("SetParameterValues should not be an array")
	}
	if len(info.Members) != 2 || info.Members[0].Ident.Name != "ParameterList" {
		t.Errorf("Members = %v", info.Members)
	}
}

func TestInspectorResolveArray(t *testing.T) {
	insp := newTestInspector(t)

	info := resolve(t, insp, "Body/SetParameterValues/ParameterList")
	if !info.IsArray() {
		t.Fatal("ParameterList should be an array")
	}
	if info.Item.Type.Name != "ParameterValueStruct" {
		t.Errorf("item type = %s, want ParameterValueStruct", info.Item.Type)
	}

	value := resolve(t, insp, "Body/SetParameterValues/ParameterList/ParameterValueStruct/Value")
	if value.Builtin != "anySimpleType" {
		t.Errorf("Value builtin = %q, want anySimpleType", value.Builtin)
	}

	names := resolve(t, insp, "Body/GetRPCMethodsResponse/MethodList")
	if !names.IsArray() || names.Item.Type.Name != "string" {
		t.Errorf("MethodList item = %+v", names.Item)
	}
}

func TestInspectorResolveSimpleType(t *testing.T) {
	insp := newTestInspector(t)

	info := resolve(t, insp, "Body/SetParameterValuesResponse/Status")
	if info.Variant != schema.VariantSimple {
		t.Errorf("Variant = %v, want Simple", info.Variant)
	}
	if info.Builtin != "int" {
		t.Errorf("Builtin = %q, want int", info.Builtin)
	}
}

func TestInspectorResolveErrors(t *testing.T) {
	insp := newTestInspector(t)

	tests := []struct {
		path string
		want error
	}{
		{"Body", ErrInvalidPath},
		{"Body/Inform", ErrElementNotFound},
		{"Header/HoldRequests", ErrElementNotFound},
		{"Body/Reboot/NoSuchMember", ErrMemberNotFound},
	}
	for _, tt := range tests {
		p, err := ParsePath(tt.path)
		if err != nil {
			t.Fatalf("ParsePath(%q): %v", tt.path, err)
		}
		if _, err := insp.Resolve(p); !errors.Is(err, tt.want) {
			t.Errorf("Resolve(%q) error = %v, want %v", tt.path, err, tt.want)
		}
	}
}
