package inspect

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
	"github.com/cwmp-protocol/cwmp-go/pkg/soap"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowTypes includes the resolved type of every element
	ShowTypes bool

	// ShowOccurs includes minOccurs..maxOccurs bounds
	ShowOccurs bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowTypes:   true,
		ShowOccurs:  false,
		IndentWidth: 2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatIdent renders an ident compactly: canonical idents by name, others
// with a short namespace label.
func FormatIdent(id schema.Ident) string {
	if id.IsCanonical() {
		return id.Name
	}
	return namespaceLabel(id.Namespace) + ":" + id.Name
}

func namespaceLabel(ns schema.Namespace) string {
	switch string(ns) {
	case string(schema.XSDNamespace):
		return soap.XSDPrefix
	case soap.EnvelopeNamespace:
		return soap.EnvelopePrefix
	case soap.EncodingNamespace:
		return soap.EncodingPrefix
	}
	s := string(ns)
	if i := strings.LastIndexAny(s, ":/"); i >= 0 && i < len(s)-1 {
		return s[i+1:]
	}
	return s
}

// FormatOccurs renders occurrence bounds as "[min..max]".
func FormatOccurs(minOccurs uint32, maxOccurs schema.Occurs) string {
	return fmt.Sprintf("[%d..%s]", minOccurs, maxOccurs)
}

// FormatNode formats a single resolved element on one line.
func (f *Formatter) FormatNode(info *NodeInfo) string {
	var sb strings.Builder
	sb.WriteString(info.Name)
	if f.ShowTypes {
		sb.WriteString(": ")
		sb.WriteString(FormatIdent(info.Type))
		switch {
		case info.IsArray():
			fmt.Fprintf(&sb, " (array of %s)", FormatIdent(info.Item.Type))
		case info.Builtin != "" && info.Type.Name != info.Builtin:
			fmt.Fprintf(&sb, " (%s)", info.Builtin)
		}
	}
	if f.ShowOccurs {
		sb.WriteString(" ")
		sb.WriteString(FormatOccurs(info.MinOccurs, info.MaxOccurs))
	}
	return sb.String()
}

// FormatAlternatives lists the elements a holder accepts.
func (f *Formatter) FormatAlternatives(h Holder, alts []schema.ElementMeta) string {
	if len(alts) == 0 {
		return f.Indent(1, "(no alternatives)")
	}

	var sb strings.Builder
	sb.WriteString(h.String())
	sb.WriteString("\n")
	for _, alt := range alts {
		sb.WriteString(f.Indent(1, FormatIdent(alt.Ident)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatTree formats info and its members down to maxDepth levels. A
// maxDepth of zero or less prints the whole tree. Recursive types are cut
// at their second appearance on a branch.
func (f *Formatter) FormatTree(ins *Inspector, info *NodeInfo, maxDepth int) (string, error) {
	var sb strings.Builder
	if err := f.formatTree(&sb, ins, info, 0, maxDepth, nil); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (f *Formatter) formatTree(sb *strings.Builder, ins *Inspector, info *NodeInfo, depth, maxDepth int, branch []schema.Ident) error {
	sb.WriteString(f.Indent(depth, f.FormatNode(info)))
	if slices.Contains(branch, info.Type) {
		sb.WriteString(" ...\n")
		return nil
	}
	sb.WriteString("\n")
	if maxDepth > 0 && depth+1 >= maxDepth {
		return nil
	}

	branch = append(branch, info.Type)
	for _, m := range info.Members {
		child, err := ins.Describe(m)
		if err != nil {
			return err
		}
		if err := f.formatTree(sb, ins, child, depth+1, maxDepth, branch); err != nil {
			return err
		}
	}
	return nil
}
