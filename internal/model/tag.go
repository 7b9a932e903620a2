package model

// Scope keywords with engine-defined behavior. Any other keyword is
// passed to the structural mapping table as a custom node-type group.
const (
	ScopeFunc    = "func"
	ScopeClass   = "class"
	ScopeBlock   = "block"
	ScopeSig     = "sig"
	ScopeBody    = "body"
	ScopeStmt    = "stmt"
	ScopeContext = "context"
	ScopeFile    = "file"
)

// GuardTag is one parsed guard declaration. A single source line holds
// at most one GuardTag; multiple declarations packed on the line merge
// into it.
type GuardTag struct {
	// Line is the 1-based line bearing the tag comment.
	Line int `json:"line"`

	// Identifier is the optional named sub-target ("ai[claude]").
	Identifier string `json:"identifier,omitempty"`

	// Scope is the scope keyword, empty when the tag has none.
	Scope string `json:"scope,omitempty"`

	// LineCount is the explicit numeric extent, 0 when absent.
	// Mutually exclusive with scope resolution once resolved.
	LineCount int `json:"lineCount,omitempty"`

	// AddScopes and RemoveScopes accumulate +name/-name modifiers
	// across every declaration on the line.
	AddScopes    []string `json:"addScopes,omitempty"`
	RemoveScopes []string `json:"removeScopes,omitempty"`

	// Claims holds the per-actor effect. An Unset state leaves that
	// actor unchanged at this position.
	Claims Snapshot `json:"claims"`

	// ScopeStart and ScopeEnd are the resolved 1-based inclusive
	// range, set by scope resolution and adjusted by the stack
	// post-process. Zero until resolution completes.
	ScopeStart int `json:"scopeStart,omitempty"`
	ScopeEnd   int `json:"scopeEnd,omitempty"`
}

// Resolved reports whether the tag's range has been computed.
func (t *GuardTag) Resolved() bool { return t.ScopeStart > 0 && t.ScopeEnd > 0 }

// Covers reports whether the resolved range contains line.
func (t *GuardTag) Covers(line int) bool {
	return t.Resolved() && t.ScopeStart <= line && line <= t.ScopeEnd
}

// LinePermission is the resolved output for one line: the single
// effective state per actor. Immutable once produced for a document
// version.
type LinePermission struct {
	Line       int      `json:"line"`
	Snapshot   Snapshot `json:"permissions"`
	Identifier string   `json:"identifier,omitempty"`
}
