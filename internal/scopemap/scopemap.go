// Package scopemap holds the structural mapping table: for each
// language, which native syntax node types satisfy each scope keyword,
// plus the comment markers and structure family the lexer-backed
// provider needs. The table is data, not logic; it can be replaced
// wholesale from a YAML or JSON-with-comments file, and languages may
// extend one another (typescript extends javascript).
package scopemap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Structure families drive how the syntax provider derives block
// boundaries for a language.
const (
	StructureBrace  = "brace"
	StructureIndent = "indent"
)

// Language describes one language's entry in the mapping table.
type Language struct {
	// Extends names a parent language whose scopes and markers are
	// inherited and then merged with this entry's own.
	Extends string `yaml:"extends,omitempty" json:"extends,omitempty"`

	// Structure is "brace" or "indent"; empty means no structural
	// support (fallback heuristics only).
	Structure string `yaml:"structure,omitempty" json:"structure,omitempty"`

	// Scopes maps scope keywords (func, class, block, ...) to the
	// node-type names the provider emits for this language.
	Scopes map[string][]string `yaml:"scopes,omitempty" json:"scopes,omitempty"`

	// LineComments are comment prefixes ("#", "//").
	LineComments []string `yaml:"line_comments,omitempty" json:"lineComments,omitempty"`

	// BlockComments are open/close marker pairs.
	BlockComments [][2]string `yaml:"block_comments,omitempty" json:"blockComments,omitempty"`
}

// Config is the on-disk form of the table.
type Config struct {
	Version   string              `yaml:"version" json:"version"`
	Languages map[string]Language `yaml:"languages" json:"languages"`
}

// Table is the resolved mapping table: inheritance flattened, ready
// for lookups.
type Table struct {
	languages map[string]Language
}

// Load reads a mapping table from path. A .json or .jsonc file may
// contain comments (the original table format); anything else is
// parsed as YAML. An empty path returns the built-in table.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scope table: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	var cfg Config
	// YAML is a JSON superset, so one decoder covers both formats.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse scope table %s: %w", path, err)
	}

	return FromConfig(&cfg)
}

// FromConfig resolves inheritance and validates the result.
func FromConfig(cfg *Config) (*Table, error) {
	t := &Table{languages: make(map[string]Language, len(cfg.Languages))}
	for id := range cfg.Languages {
		resolved, err := resolveLanguage(cfg.Languages, id, nil)
		if err != nil {
			return nil, err
		}
		t.languages[id] = resolved
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func resolveLanguage(all map[string]Language, id string, trail []string) (Language, error) {
	for _, seen := range trail {
		if seen == id {
			return Language{}, fmt.Errorf("scope table: circular extends chain %s -> %s",
				strings.Join(trail, " -> "), id)
		}
	}

	lang, ok := all[id]
	if !ok {
		return Language{}, fmt.Errorf("scope table: language %q extends unknown language", trail[len(trail)-1])
	}
	if lang.Extends == "" {
		return cloneLanguage(lang), nil
	}

	parent, err := resolveLanguage(all, lang.Extends, append(trail, id))
	if err != nil {
		return Language{}, err
	}

	merged := parent
	if lang.Structure != "" {
		merged.Structure = lang.Structure
	}
	if merged.Scopes == nil {
		merged.Scopes = make(map[string][]string)
	}
	for keyword, types := range lang.Scopes {
		merged.Scopes[keyword] = append(merged.Scopes[keyword], types...)
	}
	if len(lang.LineComments) > 0 {
		merged.LineComments = append(merged.LineComments, lang.LineComments...)
	}
	if len(lang.BlockComments) > 0 {
		merged.BlockComments = append(merged.BlockComments, lang.BlockComments...)
	}
	merged.Extends = ""
	return merged, nil
}

func cloneLanguage(lang Language) Language {
	out := lang
	if lang.Scopes != nil {
		out.Scopes = make(map[string][]string, len(lang.Scopes))
		for k, v := range lang.Scopes {
			out.Scopes[k] = append([]string(nil), v...)
		}
	}
	out.LineComments = append([]string(nil), lang.LineComments...)
	out.BlockComments = append([][2]string(nil), lang.BlockComments...)
	return out
}

// Validate checks table-level invariants. A broken table is a
// configuration defect and must fail loudly, never degrade silently.
func (t *Table) Validate() error {
	for id, lang := range t.languages {
		switch lang.Structure {
		case "", StructureBrace, StructureIndent:
		default:
			return fmt.Errorf("scope table: language %q has unknown structure family %q", id, lang.Structure)
		}
		for keyword, types := range lang.Scopes {
			if keyword == "" {
				return fmt.Errorf("scope table: language %q has an empty scope keyword", id)
			}
			if len(types) == 0 {
				return fmt.Errorf("scope table: language %q maps scope %q to no node types", id, keyword)
			}
		}
		if lang.Structure != "" && len(lang.Scopes) == 0 {
			return fmt.Errorf("scope table: language %q declares structure %q but maps no scopes", id, lang.Structure)
		}
	}
	return nil
}

// Supported reports whether the language has structural support.
func (t *Table) Supported(language string) bool {
	lang, ok := t.languages[language]
	return ok && lang.Structure != ""
}

// Structure returns the structure family for a language, "" if none.
func (t *Table) Structure(language string) string {
	return t.languages[language].Structure
}

// NodeTypes returns the node-type set for a scope keyword in a
// language, nil when the language or keyword is unmapped.
func (t *Table) NodeTypes(language, keyword string) []string {
	return t.languages[language].Scopes[keyword]
}

// LineComments returns the line-comment prefixes for a language.
// Unknown languages fall back to the common "#" and "//" prefixes so
// tag extraction still works on unsupported files.
func (t *Table) LineComments(language string) []string {
	if lang, ok := t.languages[language]; ok && len(lang.LineComments) > 0 {
		return lang.LineComments
	}
	return []string{"#", "//", "--", ";"}
}

// BlockComments returns the block-comment marker pairs for a language.
func (t *Table) BlockComments(language string) [][2]string {
	return t.languages[language].BlockComments
}

// Languages lists the configured language identifiers, sorted.
func (t *Table) Languages() []string {
	out := make([]string, 0, len(t.languages))
	for id := range t.languages {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Scopes returns the resolved scope map for one language, nil when
// the language is unknown.
func (t *Table) Scopes(language string) map[string][]string {
	lang, ok := t.languages[language]
	if !ok {
		return nil
	}
	return lang.Scopes
}
