// Package syntax builds a lightweight structural tree over a document
// using lexer tokens plus brace or indentation structure. It stands in
// for a full incremental parser behind a small capability contract:
// when a language is unsupported, Parse returns a nil tree and the
// scope resolver's fallback path engages.
package syntax

import (
	"context"

	"github.com/guardline-dev/guardline/internal/document"
)

// Node is one structural construct. All line numbers are 1-based and
// inclusive.
type Node struct {
	// Type is the native node-type name the mapping table matches
	// against ("function_definition", "block", ...).
	Type string

	// Start and End span the whole construct, declaration included.
	Start, End int

	// SigEnd is the last line of the declaration header, 0 for
	// anonymous blocks.
	SigEnd int

	// BodyStart and BodyEnd span the inner body excluding its
	// delimiter lines; both 0 when the body is empty.
	BodyStart, BodyEnd int

	Parent   *Node
	Children []*Node
}

// Contains reports whether the node's span covers line.
func (n *Node) Contains(line int) bool {
	return n.Start <= line && line <= n.End
}

// LineInfo is the per-line classification the resolver leans on for
// documentation walks, statement extents, and blank trimming.
type LineInfo struct {
	// Blank: empty or whitespace-only.
	Blank bool

	// Comment: the line holds nothing but comment text.
	Comment bool

	// Doc: comment-only or part of a docstring-like construct.
	Doc bool

	// HasCode: at least one non-comment, non-string-doc token.
	HasCode bool

	// Indent is the leading whitespace width (tabs count as one).
	Indent int

	// BracketDepthEnd is the cumulative (), [], {} nesting depth
	// after the line, counting only brackets outside strings and
	// comments. Nonzero means the logical statement continues.
	BracketDepthEnd int
}

// Tree is the structural index for one document version.
type Tree struct {
	Language string

	// Lines is indexed by line number; index 0 is unused.
	Lines []LineInfo

	// Roots are the top-level nodes in source order.
	Roots []*Node

	// nodes is every node flattened, sorted by Start ascending and,
	// for equal starts, wider span first.
	nodes []*Node
}

// Line returns the classification for a 1-based line. Out-of-range
// lines classify as blank.
func (t *Tree) Line(n int) LineInfo {
	if n < 1 || n >= len(t.Lines) {
		return LineInfo{Blank: true}
	}
	return t.Lines[n]
}

// FindForward returns the first node starting at or after line whose
// type is in types, searching in source order. Returns nil when none
// matches.
func (t *Tree) FindForward(line int, types []string) *Node {
	for _, n := range t.nodes {
		if n.Start >= line && typeIn(n.Type, types) {
			return n
		}
	}
	return nil
}

// Innermost returns the deepest node containing line, nil when the
// line is outside every node.
func (t *Tree) Innermost(line int) *Node {
	var best *Node
	for _, n := range t.nodes {
		if n.Start > line {
			break
		}
		if n.Contains(line) {
			if best == nil || n.End-n.Start <= best.End-best.Start {
				best = n
			}
		}
	}
	return best
}

// ParentOfType walks from node upward (node included) and returns the
// first ancestor whose type is in types.
func ParentOfType(node *Node, types []string) *Node {
	for n := node; n != nil; n = n.Parent {
		if typeIn(n.Type, types) {
			return n
		}
	}
	return nil
}

func typeIn(ty string, types []string) bool {
	for _, t := range types {
		if t == ty {
			return true
		}
	}
	return false
}

// Provider is the capability contract the scope resolver depends on.
// Parse returns (nil, nil) when the document's language has no
// structural support, which engages the resolver's fallback path.
type Provider interface {
	Parse(ctx context.Context, doc *document.Document) (*Tree, error)
}
