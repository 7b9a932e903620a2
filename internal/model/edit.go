package model

import "fmt"

// Edit is a single text change in a document: the half-open region
// [Start, End) is replaced by NewText. Lines are 1-based, columns are
// 0-based byte offsets within the line.
type Edit struct {
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startCol"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endCol"`
	NewText   string `json:"newText"`
}

// InvalidEditError reports an edit delta referencing positions outside
// the current document bounds. The caller must discard the delta and
// force a full re-sweep; a partially-valid delta is never applied.
type InvalidEditError struct {
	Edit   Edit
	Reason string
}

func (e *InvalidEditError) Error() string {
	return fmt.Sprintf("invalid edit at %d:%d-%d:%d: %s",
		e.Edit.StartLine, e.Edit.StartCol, e.Edit.EndLine, e.Edit.EndCol, e.Reason)
}

// InconsistencyError reports that a language declared as structurally
// supported yielded no boundary for a scope keyword. This is a defect
// in the mapping table and must not be swallowed: downstream
// permission decisions would otherwise be silently wrong.
type InconsistencyError struct {
	Language string
	Scope    string
	Line     int
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("scope resolution inconsistency: language %q claims structural support but no %q boundary found at line %d",
		e.Language, e.Scope, e.Line)
}
