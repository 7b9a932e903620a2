package guardline

import (
	"fmt"

	"github.com/guardline-dev/guardline/internal/model"
)

// Access is the level an edit requires on a line.
type Access string

const (
	Read  Access = "read"
	Write Access = "write"
)

// Edit describes an intended touch of one source line.
type Edit struct {
	Path     string // file path, read from disk when Text is empty
	Language string // language identifier, detected from the extension when empty
	Text     string // optional inline document content
	Line     int    // 1-based line number
	Actor    string // optional, falls back to the client actor
	Access   Access // required access, defaults to Write
}

// Result is a permission check outcome for one line.
type Result struct {
	Allowed bool
	Line    int
	Actor   string
	State   string // effective state: read, write, none, or unset
	Context bool   // the line is guarded as context documentation
}

// Tag is one resolved guard declaration.
type Tag struct {
	Line       int
	Scope      string
	Identifier string
	Start      int // resolved range, 1-based inclusive
	End        int
	Claims     map[string]string // actor name to claimed state
}

// LinePermissions is the effective state of one line for every actor.
type LinePermissions struct {
	Line        int
	Permissions map[string]string
	Identifier  string
}

// BlockedError is returned when a wrapped edit lacks the required
// access on its target line.
type BlockedError struct {
	Edit  Edit
	Actor string
	State string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("guardline blocked %s:%d for %s (state: %s)",
		e.Edit.Path, e.Edit.Line, e.Actor, e.State)
}

// toTag maps an internal GuardTag to an SDK Tag.
func toTag(t *model.GuardTag) Tag {
	claims := make(map[string]string)
	for _, actor := range t.Claims.Actors() {
		claims[actor] = t.Claims.Get(actor).String()
	}
	return Tag{
		Line:       t.Line,
		Scope:      t.Scope,
		Identifier: t.Identifier,
		Start:      t.ScopeStart,
		End:        t.ScopeEnd,
		Claims:     claims,
	}
}
