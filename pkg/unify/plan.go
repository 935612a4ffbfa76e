package unify

import (
	"fmt"

	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
	"github.com/cwmp-protocol/cwmp-go/pkg/version"
)

// Methods is the canonical RPC repertoire. Each method also has a
// "<name>Response" element.
var Methods = []string{
	"GetRPCMethods",
	"SetParameterValues",
	"GetParameterValues",
	"GetParameterNames",
	"SetParameterAttributes",
	"GetParameterAttributes",
	"AddObject",
	"DeleteObject",
	"Reboot",
	"Download",
	"ScheduleDownload",
	"Upload",
	"FactoryReset",
	"GetAllQueuedTransfers",
	"CancelTransfer",
	"ScheduleInform",
	"ChangeDUState",
}

// Headers is the canonical header set.
var Headers = []string{"ID", "SessionTimeout", "SupportedCWMPVersions", "UseCWMPVersion"}

// RPCElements returns the request elements followed by the response
// elements of the repertoire.
func RPCElements() []string {
	out := make([]string, 0, 2*len(Methods))
	out = append(out, Methods...)
	for _, m := range Methods {
		out = append(out, m+"Response")
	}
	return out
}

// HeaderSource names the namespace whose declaration of a header becomes
// canonical.
type HeaderSource struct {
	Name      string
	Namespace schema.Namespace
}

// Plan says where each canonical declaration is taken from.
type Plan struct {
	// Envelope is the SOAP envelope namespace holding Header, Body, Fault
	// and detail.
	Envelope schema.Namespace

	// Headers are copied in order into the Header choice.
	Headers []HeaderSource

	// Elements are the RPC body elements, taken from Canonical.
	Elements []string

	// Canonical is the namespace whose RPC and Fault declarations win.
	Canonical schema.Namespace

	// Versions are all namespaces whose duplicates are collapsed.
	Versions []schema.Namespace
}

// DefaultPlan derives the plan from the embedded version manifests: each
// header comes from the oldest version declaring it, RPC methods and the
// Fault come from the current version's namespace.
func DefaultPlan() (Plan, error) {
	manifests, err := version.LoadAll()
	if err != nil {
		return Plan{}, err
	}
	current, err := version.LoadCurrentSpec()
	if err != nil {
		return Plan{}, err
	}
	namespaces, err := version.Namespaces()
	if err != nil {
		return Plan{}, err
	}

	p := Plan{
		Envelope:  schema.Namespace("http://schemas.xmlsoap.org/soap/envelope/"),
		Elements:  RPCElements(),
		Canonical: current.Namespace,
		Versions:  namespaces,
	}
	for _, name := range Headers {
		var src *version.SpecManifest
		for _, m := range manifests {
			if m.DeclaresHeader(name) {
				src = m
				break
			}
		}
		if src == nil {
			return Plan{}, fmt.Errorf("header %s: no version declares it", name)
		}
		p.Headers = append(p.Headers, HeaderSource{Name: name, Namespace: src.Namespace})
	}
	return p, nil
}
