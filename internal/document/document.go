// Package document holds the immutable text snapshot the engine
// resolves against. A Document is cheap to copy forward: applying
// edits produces a new value with a bumped version, never mutating
// the original.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// Document is one version of a text buffer. Lines are 1-based.
type Document struct {
	id       string
	version  int
	language string
	lines    []string
	hash     string
}

// New creates version 1 of a document from full text. The id must be
// stable across versions of the same buffer (a file path works).
func New(id, language, text string) *Document {
	lines := splitLines(text)
	return &Document{
		id:       id,
		version:  1,
		language: language,
		lines:    lines,
		hash:     hashLines(lines),
	}
}

// ID returns the stable document identifier.
func (d *Document) ID() string { return d.id }

// Version returns the monotonically increasing version number.
// Version numbers only order documents produced by Apply; two
// documents built independently from file content both carry
// version 1, so content comparison goes through Hash.
func (d *Document) Version() int { return d.version }

// Hash returns a digest of the normalized content. Two documents with
// the same hash resolve identically regardless of version.
func (d *Document) Hash() string { return d.hash }

// LanguageID returns the language identifier ("python", "go", ...).
func (d *Document) LanguageID() string { return d.language }

// LineCount returns the number of lines.
func (d *Document) LineCount() int { return len(d.lines) }

// LineAt returns the 1-based line without its trailing newline.
// Out-of-range lines return "".
func (d *Document) LineAt(n int) string {
	if n < 1 || n > len(d.lines) {
		return ""
	}
	return d.lines[n-1]
}

// Text reassembles the full document text.
func (d *Document) Text() string {
	return strings.Join(d.lines, "\n")
}

// Lines returns the backing line slice. Callers must treat it as
// read-only; Apply never mutates it in place.
func (d *Document) Lines() []string { return d.lines }

// IsBlank reports whether line n is empty or whitespace-only.
func (d *Document) IsBlank(n int) bool {
	return strings.TrimSpace(d.LineAt(n)) == ""
}

// LastContentLine returns the last non-blank line at or before n,
// or 0 if every line up to n is blank.
func (d *Document) LastContentLine(n int) int {
	if n > len(d.lines) {
		n = len(d.lines)
	}
	for ; n >= 1; n-- {
		if !d.IsBlank(n) {
			return n
		}
	}
	return 0
}

func splitLines(text string) []string {
	if text == "" {
		return []string{""}
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func hashLines(lines []string) string {
	h := sha256.New()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// languageByExt maps file extensions to language identifiers for the
// CLI and watcher, which work from paths rather than editor buffers.
var languageByExt = map[string]string{
	".py":    "python",
	".go":    "go",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".rs":    "rust",
	".rb":    "ruby",
	".sh":    "shell",
	".bash":  "shell",
	".yaml":  "yaml",
	".yml":   "yaml",
	".md":    "markdown",
	".tf":    "terraform",
	".swift": "swift",
	".kt":    "kotlin",
}

// DetectLanguage guesses the language identifier from a file path.
// Unknown extensions return "plaintext", which has no structural
// support and engages the fallback resolution path.
func DetectLanguage(path string) string {
	if lang, ok := languageByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "plaintext"
}
