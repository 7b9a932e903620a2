package syntax

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// lineScan is the token-derived view of a document: one LineInfo per
// line plus the ordered brace events the brace-family builder walks.
type lineScan struct {
	info   []LineInfo // 1-based, index 0 unused
	braces [][]byte   // per line: '{' and '}' outside strings/comments
}

// lexText tokenizes the text with the language's chroma lexer and
// classifies every line. Returns false when chroma has no lexer for
// the language.
func lexText(languageID, text string, lines []string) (*lineScan, bool) {
	lexer := lexers.Get(languageID)
	if lexer == nil {
		return nil, false
	}

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return nil, false
	}

	scan := &lineScan{
		info:   make([]LineInfo, len(lines)+1),
		braces: make([][]byte, len(lines)+1),
	}

	type lineFlags struct {
		comment bool
		doc     bool
		code    bool
	}
	flags := make([]lineFlags, len(lines)+1)

	line := 1
	depth := 0
	for tok := it(); tok != chroma.EOF; tok = it() {
		segments := strings.Split(tok.Value, "\n")
		for i, seg := range segments {
			if i > 0 {
				if line <= len(lines) {
					scan.info[line].BracketDepthEnd = depth
				}
				line++
			}
			if line > len(lines) || strings.TrimSpace(seg) == "" {
				continue
			}
			switch {
			case tok.Type.InCategory(chroma.Comment):
				flags[line].comment = true
			case tok.Type == chroma.LiteralStringDoc:
				flags[line].doc = true
			case tok.Type.InSubCategory(chroma.LiteralString):
				flags[line].code = true
			default:
				flags[line].code = true
				depth += bracketDelta(seg, &scan.braces[line])
			}
		}
	}
	if line <= len(lines) {
		scan.info[line].BracketDepthEnd = depth
	}

	for n := 1; n <= len(lines); n++ {
		raw := lines[n-1]
		f := flags[n]
		info := &scan.info[n]
		info.Blank = strings.TrimSpace(raw) == ""
		info.HasCode = f.code
		info.Comment = !info.Blank && f.comment && !f.code
		info.Doc = !info.Blank && !f.code && (f.comment || f.doc)
		info.Indent = indentWidth(raw)
	}

	return scan, true
}

// bracketDelta counts bracket nesting in a code segment and appends
// curly-brace events for the structure builder.
func bracketDelta(seg string, braces *[]byte) int {
	delta := 0
	for _, r := range seg {
		switch r {
		case '(', '[':
			delta++
		case ')', ']':
			delta--
		case '{':
			delta++
			*braces = append(*braces, '{')
		case '}':
			delta--
			*braces = append(*braces, '}')
		}
	}
	return delta
}

func indentWidth(line string) int {
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
