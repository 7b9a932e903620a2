package syntax

import (
	"context"
	"sort"

	"github.com/guardline-dev/guardline/internal/document"
	"github.com/guardline-dev/guardline/internal/scopemap"
)

// ChromaProvider implements Provider on top of chroma lexing. The
// mapping table decides which languages are structurally supported and
// which structure family applies.
type ChromaProvider struct {
	table *scopemap.Table
}

// NewProvider builds a provider bound to a mapping table.
func NewProvider(table *scopemap.Table) *ChromaProvider {
	return &ChromaProvider{table: table}
}

// Parse builds the structural tree for a document. Returns (nil, nil)
// for languages without structural support; the caller falls back to
// heuristics.
func (p *ChromaProvider) Parse(ctx context.Context, doc *document.Document) (*Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	language := doc.LanguageID()
	family := p.table.Structure(language)
	if family == "" {
		return nil, nil
	}
	patterns := declPatterns[language]
	if patterns == nil {
		return nil, nil
	}

	lines := doc.Lines()
	scan, ok := lexText(language, doc.Text(), lines)
	if !ok {
		return nil, nil
	}

	var nodes []*Node
	switch family {
	case scopemap.StructureBrace:
		nodes = buildBrace(lines, scan, patterns)
	case scopemap.StructureIndent:
		nodes = buildIndent(lines, scan, patterns)
	}

	return assemble(language, scan.info, nodes), nil
}

// assemble sorts nodes, links parents by interval nesting, and
// finishes the tree.
func assemble(language string, info []LineInfo, nodes []*Node) *Tree {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Start != nodes[j].Start {
			return nodes[i].Start < nodes[j].Start
		}
		return nodes[i].End > nodes[j].End
	})

	t := &Tree{Language: language, Lines: info, nodes: nodes}

	var stack []*Node
	for _, n := range nodes {
		for len(stack) > 0 && stack[len(stack)-1].End < n.Start {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 && stack[len(stack)-1].Contains(n.Start) && stack[len(stack)-1] != n {
			n.Parent = stack[len(stack)-1]
			n.Parent.Children = append(n.Parent.Children, n)
		} else {
			t.Roots = append(t.Roots, n)
		}
		stack = append(stack, n)
	}

	return t
}
