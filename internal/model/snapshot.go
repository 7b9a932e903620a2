package model

import (
	"encoding/json"
	"sort"
)

// Canonical actor names. "ai" and "human" are first-class; any other
// actor named in a tag lands in the Extra map.
const (
	ActorAI    = "ai"
	ActorHuman = "human"
)

// Snapshot holds one State per actor. AI and Human are fixed fields so
// the compiler keeps every code path exhaustive over the known actors;
// Extra carries additional actors declared by custom tags.
type Snapshot struct {
	AI    State
	Human State
	Extra map[string]State
}

// DefaultSnapshot is the document-wide default: AI may read, humans may
// write, nothing is context.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		AI:    Plain(AccessRead),
		Human: Plain(AccessWrite),
	}
}

// Get returns the state for the named actor, Unset if unknown.
func (s Snapshot) Get(actor string) State {
	switch actor {
	case ActorAI:
		return s.AI
	case ActorHuman:
		return s.Human
	default:
		return s.Extra[actor]
	}
}

// Set returns a copy of the snapshot with the actor's state replaced.
// The Extra map is never shared between the copy and the original.
func (s Snapshot) Set(actor string, st State) Snapshot {
	out := s.cloneExtra()
	switch actor {
	case ActorAI:
		out.AI = st
	case ActorHuman:
		out.Human = st
	default:
		if out.Extra == nil {
			out.Extra = make(map[string]State)
		}
		out.Extra[actor] = st
	}
	return out
}

// Overlay layers every non-unset state of top onto s and returns the
// result. Used when a tag's claims are applied over an inherited
// snapshot.
func (s Snapshot) Overlay(top Snapshot) Snapshot {
	out := s.cloneExtra()
	out.AI = top.AI.Over(s.AI)
	out.Human = top.Human.Over(s.Human)
	for actor, st := range top.Extra {
		base := s.Extra[actor]
		if out.Extra == nil {
			out.Extra = make(map[string]State)
		}
		out.Extra[actor] = st.Over(base)
	}
	return out
}

// Actors returns every actor with a non-unset state, fixed actors
// first, extras sorted.
func (s Snapshot) Actors() []string {
	var out []string
	if !s.AI.IsUnset() {
		out = append(out, ActorAI)
	}
	if !s.Human.IsUnset() {
		out = append(out, ActorHuman)
	}
	extras := make([]string, 0, len(s.Extra))
	for actor, st := range s.Extra {
		if !st.IsUnset() {
			extras = append(extras, actor)
		}
	}
	sort.Strings(extras)
	return append(out, extras...)
}

// HasContext reports whether any actor is in a context state.
func (s Snapshot) HasContext() bool {
	if s.AI.IsContext() || s.Human.IsContext() {
		return true
	}
	for _, st := range s.Extra {
		if st.IsContext() {
			return true
		}
	}
	return false
}

// Equal reports deep equality over all actors.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.AI != o.AI || s.Human != o.Human {
		return false
	}
	if len(s.Extra) != len(o.Extra) {
		return false
	}
	for actor, st := range s.Extra {
		if o.Extra[actor] != st {
			return false
		}
	}
	return true
}

func (s Snapshot) cloneExtra() Snapshot {
	out := s
	if s.Extra != nil {
		out.Extra = make(map[string]State, len(s.Extra))
		for actor, st := range s.Extra {
			out.Extra[actor] = st
		}
	}
	return out
}

// MarshalJSON flattens the snapshot to {"ai": "read", "human": "write", ...},
// omitting unset actors.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]State)
	for _, actor := range s.Actors() {
		out[actor] = s.Get(actor)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the flattened actor map form.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]State
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Snapshot{}
	for actor, st := range raw {
		out = out.Set(actor, st)
	}
	*s = out
	return nil
}
