package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Access is a permission code for a single actor.
type Access uint8

const (
	AccessUnset Access = iota
	AccessRead
	AccessWrite
	AccessNone
)

// String returns the canonical lowercase name.
func (a Access) String() string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessNone:
		return "none"
	default:
		return "unset"
	}
}

// ParseAccess maps a permission word or alias to an Access code.
// Returns AccessUnset and false for unrecognized input.
func ParseAccess(s string) (Access, bool) {
	switch strings.ToLower(s) {
	case "r", "read":
		return AccessRead, true
	case "w", "write":
		return AccessWrite, true
	case "n", "none", "noaccess":
		return AccessNone, true
	default:
		return AccessUnset, false
	}
}

// State is the per-actor permission variant carried on tags, stack
// entries, and resolved lines:
//
//	Unset | Read | Write | None | Context(underlying)
//
// Context is a permission mode of its own, not a boolean next to a
// permission: a context state remembers the underlying access used for
// rendering (read-context vs write-context), which may itself be Unset
// when the tag declared bare "context" and the underlying access is
// inherited.
type State struct {
	access  Access
	context bool
}

// Plain returns a non-context state holding the given access.
func Plain(a Access) State { return State{access: a} }

// ContextState returns a context state with the given underlying access.
func ContextState(under Access) State { return State{access: under, context: true} }

// Unset is the zero State: no effect on the actor.
var Unset = State{}

// IsUnset reports whether the state changes nothing for the actor.
func (s State) IsUnset() bool { return !s.context && s.access == AccessUnset }

// IsContext reports whether the state is a context variant.
func (s State) IsContext() bool { return s.context }

// Access returns the underlying permission code. For a context state
// this is the render permission, which may be AccessUnset (inherited).
func (s State) Access() Access { return s.access }

// WithAccess returns the state with the underlying access replaced,
// preserving the context flag.
func (s State) WithAccess(a Access) State { return State{access: a, context: s.context} }

// Over layers s on top of base: an unset field inherits from base.
// A context state with no declared access keeps base's access for
// rendering; a plain state discards base's context flag.
func (s State) Over(base State) State {
	if s.IsUnset() {
		return base
	}
	if s.context && s.access == AccessUnset {
		return State{access: base.access, context: true}
	}
	return s
}

// Allows reports whether s grants the required access. Write implies
// read; none and unset grant nothing. A context state decides by its
// render access.
func (s State) Allows(required Access) bool {
	switch s.access {
	case AccessWrite:
		return true
	case AccessRead:
		return required == AccessRead
	default:
		return false
	}
}

// String renders "read", "write", "none", "unset", or "context:<access>".
func (s State) String() string {
	if s.context {
		return "context:" + s.access.String()
	}
	return s.access.String()
}

// MarshalJSON emits the String form.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the String form.
func (s *State) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := parseStateString(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func parseStateString(raw string) (State, error) {
	ctx := false
	if rest, ok := strings.CutPrefix(raw, "context:"); ok {
		ctx = true
		raw = rest
	}
	switch raw {
	case "unset":
		return State{context: ctx}, nil
	case "read":
		return State{access: AccessRead, context: ctx}, nil
	case "write":
		return State{access: AccessWrite, context: ctx}, nil
	case "none":
		return State{access: AccessNone, context: ctx}, nil
	default:
		return State{}, fmt.Errorf("unknown permission state %q", raw)
	}
}
