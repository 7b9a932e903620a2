package guard

import "strings"

// CommentRules is the language-specific comment knowledge the parser
// needs: which prefixes start a line comment and which marker pairs
// delimit block comments or docstrings.
type CommentRules struct {
	Line  []string
	Block [][2]string
}

// DefaultRules covers the common comment prefixes and serves languages
// the mapping table doesn't know.
func DefaultRules() CommentRules {
	return CommentRules{
		Line:  []string{"#", "//", "--", ";"},
		Block: [][2]string{{"/*", "*/"}},
	}
}

// inComment reports whether position idx on the line plausibly lies
// inside a comment. A declaration after a line-comment prefix or a
// block-comment opener qualifies; so does a line whose prefix holds
// nothing but whitespace and comment continuation punctuation (the
// middle of a block comment or docstring).
func (r CommentRules) inComment(line string, idx int) bool {
	before := line[:idx]
	for _, prefix := range r.Line {
		if strings.Contains(before, prefix) {
			return true
		}
	}
	for _, pair := range r.Block {
		if strings.Contains(before, pair[0]) {
			return true
		}
	}
	return strings.TrimLeft(before, " \t*#/'\"!;-") == ""
}
