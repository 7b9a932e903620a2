package syntax

import (
	"regexp"
	"strings"
)

// declPattern recognizes the start of a structural construct from the
// raw line text. Token classification has already ruled out comments
// and blank lines before these run.
type declPattern struct {
	re       *regexp.Regexp
	nodeType string

	// classLike marks constructs that can enclose methods.
	classLike bool

	// inClassOnly restricts the pattern to lines whose nearest open
	// construct is class-like (method definitions).
	inClassOnly bool

	// guardKeywords rejects matches whose first word is a control
	// keyword, for loose patterns like C function definitions.
	guardKeywords bool
}

var controlKeywords = map[string]bool{
	"if": true, "else": true, "elif": true, "for": true, "while": true,
	"switch": true, "case": true, "do": true, "try": true, "catch": true,
	"except": true, "finally": true, "return": true, "with": true,
	"defer": true, "select": true, "go": true, "match": true,
}

var declPatterns = map[string][]declPattern{
	"python": {
		{re: regexp.MustCompile(`^\s*(?:async\s+)?def\s+\w+`), nodeType: "function_definition"},
		{re: regexp.MustCompile(`^\s*class\s+\w+`), nodeType: "class_definition", classLike: true},
		{re: regexp.MustCompile(`^\s*(?:if|elif|else|for|while|with|try|except|finally|match|case)\b.*:\s*(?:#.*)?$`), nodeType: "block"},
	},
	"go": {
		{re: regexp.MustCompile(`^func\s*\(`), nodeType: "method_declaration"},
		{re: regexp.MustCompile(`^func\s+\w+`), nodeType: "function_declaration"},
		{re: regexp.MustCompile(`^type\s+\w+\s+(?:struct|interface)\b`), nodeType: "type_declaration", classLike: true},
	},
	"javascript": {
		{re: regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\b`), nodeType: "function_declaration"},
		{re: regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\b`), nodeType: "class_declaration", classLike: true},
		{re: regexp.MustCompile(`^\s*(?:public\s+|private\s+|protected\s+|static\s+|async\s+|get\s+|set\s+)*[\w$#]+\s*\([^;{}]*\)\s*\{`), nodeType: "method_definition", inClassOnly: true, guardKeywords: true},
	},
	"java": {
		{re: regexp.MustCompile(`^\s*(?:public\s+|protected\s+|private\s+|abstract\s+|final\s+|static\s+|strictfp\s+)*(?:class|interface|enum|record)\s+\w+`), nodeType: "class_declaration", classLike: true},
		{re: regexp.MustCompile(`^\s*(?:public\s+|protected\s+|private\s+|static\s+|final\s+|abstract\s+|synchronized\s+|native\s+|default\s+)*[\w<>\[\],\s]+\s+\w+\s*\([^;]*\)`), nodeType: "method_declaration", inClassOnly: true, guardKeywords: true},
	},
	"c": {
		{re: regexp.MustCompile(`^[A-Za-z_][\w\s\*]*[\s\*]\w+\s*\([^;{}]*[\),]\s*\{?\s*$`), nodeType: "function_definition", guardKeywords: true},
	},
	"cpp": {
		{re: regexp.MustCompile(`^\s*(?:class|struct)\s+\w+`), nodeType: "class_specifier", classLike: true},
		{re: regexp.MustCompile(`^[A-Za-z_][\w\s\*:<>,~]*[\s\*][\w:~]+\s*\([^;{}]*[\),]\s*(?:const\s*)?\{?\s*$`), nodeType: "function_definition", guardKeywords: true},
	},
	"rust": {
		{re: regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?(?:unsafe\s+)?(?:extern\s+"[^"]*"\s+)?fn\s+\w+`), nodeType: "function_item"},
		{re: regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?struct\s+\w+`), nodeType: "struct_item", classLike: true},
		{re: regexp.MustCompile(`^\s*(?:unsafe\s+)?impl\b`), nodeType: "impl_item", classLike: true},
	},
}

func init() {
	// TypeScript shares JavaScript's surface grammar for the
	// constructs tracked here.
	declPatterns["typescript"] = declPatterns["javascript"]
}

// matchDecl returns the pattern matching the line, honoring the
// in-class restriction against the nearest enclosing construct.
func matchDecl(patterns []declPattern, line string, enclosing *Node) *declPattern {
	for i := range patterns {
		p := &patterns[i]
		if !p.re.MatchString(line) {
			continue
		}
		if p.guardKeywords && controlKeywords[firstWord(line)] {
			continue
		}
		if p.inClassOnly {
			if enclosing == nil || !classLikeType(patterns, enclosing.Type) {
				continue
			}
		}
		return p
	}
	return nil
}

func classLikeType(patterns []declPattern, nodeType string) bool {
	for i := range patterns {
		if patterns[i].classLike && patterns[i].nodeType == nodeType {
			return true
		}
	}
	return false
}

func firstWord(line string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(line), func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_')
	})
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
