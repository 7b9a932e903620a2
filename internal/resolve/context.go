package resolve

import (
	"strings"

	"github.com/guardline-dev/guardline/internal/document"
	"github.com/guardline-dev/guardline/internal/syntax"
)

// contextSpan walks forward from a context tag over documentation
// lines (comments, docstrings, blanks) and stops at the first code
// line. A documentation line bearing another guard tag ends the span
// one line earlier. The resolved end is the last line with actual
// content: trailing blanks never count.
func (r *Resolver) contextSpan(doc *document.Document, tree *syntax.Tree, tagLine int, tagLines map[int]bool) Boundary {
	scanned := tagLine
	for n := tagLine + 1; n <= doc.LineCount(); n++ {
		if !r.isDocumentation(doc, tree, n) {
			break
		}
		if tagLines[n] {
			scanned = n - 1
			break
		}
		scanned = n
	}

	end := doc.LastContentLine(scanned)
	if end < tagLine {
		end = tagLine
	}
	return Boundary{Start: tagLine, End: end, Type: "context"}
}

// isDocumentation classifies a line as comment/docstring/blank, using
// the syntax tree when available and comment-prefix knowledge
// otherwise.
func (r *Resolver) isDocumentation(doc *document.Document, tree *syntax.Tree, n int) bool {
	if tree != nil {
		li := tree.Line(n)
		return li.Blank || li.Doc
	}

	trimmed := strings.TrimSpace(doc.LineAt(n))
	if trimmed == "" {
		return true
	}
	for _, prefix := range r.table.LineComments(doc.LanguageID()) {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	for _, pair := range r.table.BlockComments(doc.LanguageID()) {
		if strings.HasPrefix(trimmed, pair[0]) || strings.HasSuffix(trimmed, pair[1]) {
			return true
		}
	}
	// Block-comment continuation convention.
	return strings.HasPrefix(trimmed, "*")
}
