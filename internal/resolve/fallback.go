package resolve

import (
	"regexp"
	"strings"

	"github.com/guardline-dev/guardline/internal/document"
	"github.com/guardline-dev/guardline/internal/model"
)

var signaturePattern = regexp.MustCompile(`^\s*(?:def|class|function|func|fn|sub|public|private|protected|static|void|int)\b`)

// fallbackScope approximates structural scopes without a syntax tree,
// using brace matching and indentation. Returns false when no
// heuristic applies, in which case the implicit policy takes over.
func fallbackScope(doc *document.Document, tag *model.GuardTag) (Boundary, bool) {
	switch tag.Scope {
	case model.ScopeFunc, model.ScopeClass, model.ScopeBlock, model.ScopeBody:
		return fallbackConstruct(doc, tag)
	case model.ScopeSig:
		return fallbackSignature(doc, tag.Line)
	case model.ScopeStmt:
		if n := nextContentLine(doc, tag.Line); n > 0 {
			return Boundary{Start: tag.Line, End: n, Type: tag.Scope}, true
		}
	}
	return Boundary{}, false
}

// fallbackConstruct finds the construct starting at the next content
// line: brace matching when an opening brace is visible, indentation
// walking otherwise.
func fallbackConstruct(doc *document.Document, tag *model.GuardTag) (Boundary, bool) {
	anchor := nextContentLine(doc, tag.Line)
	if anchor == 0 {
		return Boundary{}, false
	}

	var end int
	if braceLine := findOpeningBrace(doc, anchor); braceLine > 0 {
		end = matchBrace(doc, braceLine)
	} else {
		end = indentSuiteEnd(doc, anchor)
	}
	if end < anchor {
		return Boundary{}, false
	}

	start := tag.Line
	if tag.Scope == model.ScopeBody {
		start = anchor + 1
		if start > end {
			start = anchor
		}
	}
	return Boundary{Start: start, End: end, Type: tag.Scope}, true
}

// fallbackSignature scans a small forward window for a line that looks
// like a declaration.
func fallbackSignature(doc *document.Document, tagLine int) (Boundary, bool) {
	const window = 8
	for n := tagLine; n <= doc.LineCount() && n < tagLine+window; n++ {
		if signaturePattern.MatchString(doc.LineAt(n)) {
			return Boundary{Start: tagLine, End: n, Type: model.ScopeSig}, true
		}
	}
	return Boundary{}, false
}

func nextContentLine(doc *document.Document, from int) int {
	for n := from + 1; n <= doc.LineCount(); n++ {
		if !doc.IsBlank(n) {
			return n
		}
	}
	return 0
}

// findOpeningBrace looks for '{' on the anchor line or within a short
// window below it (Allman style).
func findOpeningBrace(doc *document.Document, anchor int) int {
	for n := anchor; n <= doc.LineCount() && n < anchor+3; n++ {
		if strings.ContainsRune(doc.LineAt(n), '{') {
			return n
		}
		if n > anchor && !doc.IsBlank(n) && !strings.HasPrefix(strings.TrimSpace(doc.LineAt(n)), "{") {
			break
		}
	}
	return 0
}

// matchBrace counts braces outside quotes until the depth closes.
func matchBrace(doc *document.Document, openLine int) int {
	depth := 0
	for n := openLine; n <= doc.LineCount(); n++ {
		depth += braceDelta(doc.LineAt(n))
		if n >= openLine && depth <= 0 {
			return n
		}
	}
	return doc.LineCount()
}

func braceDelta(line string) int {
	delta := 0
	inSingle, inDouble := false, false
	for _, r := range line {
		switch r {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '{':
			if !inSingle && !inDouble {
				delta++
			}
		case '}':
			if !inSingle && !inDouble {
				delta--
			}
		}
	}
	return delta
}

// indentSuiteEnd extends from the anchor over deeper-indented lines,
// returning the last non-blank one.
func indentSuiteEnd(doc *document.Document, anchor int) int {
	base := lineIndent(doc.LineAt(anchor))
	end := anchor
	for n := anchor + 1; n <= doc.LineCount(); n++ {
		if doc.IsBlank(n) {
			continue
		}
		if lineIndent(doc.LineAt(n)) <= base {
			break
		}
		end = n
	}
	return end
}

func lineIndent(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}
