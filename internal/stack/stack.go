// Package stack sweeps a document's resolved tags into per-line
// effective permissions. One ordered pass over lines 0..N maintains a
// stack of open permission intervals: entries expire before a line is
// processed, tags on the line push new entries derived from the
// inherited state, and the line's result reads from the top covering
// entry. Context entries never resume once anything above them pops.
package stack

import (
	"github.com/guardline-dev/guardline/internal/document"
	"github.com/guardline-dev/guardline/internal/model"
)

// entry is one open interval. Its snapshot is fully derived at push
// time: inherited state overlaid with the source tag's claims.
type entry struct {
	snap        model.Snapshot
	start, end  int
	context     bool
	lineLimited bool
	fileScope   bool
	src         *model.GuardTag
}

// Resolve computes the effective permission state for every line from
// 0 (the synthetic defaults line) through the last line. Tags must
// already be resolved and ordered by line.
func Resolve(doc *document.Document, tags []*model.GuardTag, defaults model.Snapshot) map[int]model.LinePermission {
	shortenOpenBlocks(doc, tags)

	total := doc.LineCount()

	byLine := make(map[int][]*model.GuardTag, len(tags))
	for _, t := range tags {
		byLine[t.Line] = append(byLine[t.Line], t)
	}
	nextTag := nextTagLines(tags, total)
	blankRun := blankRuns(doc)

	// The bottom entry carries document defaults and never pops.
	stack := []*entry{{snap: defaults, start: 0, end: total}}

	out := make(map[int]model.LinePermission, total+1)
	out[0] = model.LinePermission{Line: 0, Snapshot: defaults}

	for line := 1; line <= total; line++ {
		// Expiry: drop entries that ended before this line. Each pop
		// takes the context entries beneath it along; an interrupted
		// context never resumes.
		for len(stack) > 1 && stack[len(stack)-1].end < line {
			stack = stack[:len(stack)-1]
			for len(stack) > 1 && stack[len(stack)-1].context {
				stack = stack[:len(stack)-1]
			}
		}

		// Push: every tag on this line derives from the inherited
		// state and interrupts any open context above it.
		for _, tag := range byLine[line] {
			inherited := coveringSnapshot(stack, line, defaults)
			snap := inherited.Overlay(tag.Claims)

			for len(stack) > 1 && stack[len(stack)-1].context {
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, &entry{
				snap:        snap,
				start:       tag.ScopeStart,
				end:         tag.ScopeEnd,
				context:     snap.HasContext(),
				lineLimited: tag.LineCount > 0,
				fileScope:   tag.Scope == model.ScopeFile,
				src:         tag,
			})
		}

		out[line] = readLine(stack, doc, line, defaults, nextTag[line], blankRun)
	}

	return out
}

// coveringSnapshot returns the snapshot of the topmost entry covering
// the line, or defaults when none covers it.
func coveringSnapshot(stack []*entry, line int, defaults model.Snapshot) model.Snapshot {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].start <= line && line <= stack[i].end {
			return stack[i].snap
		}
	}
	return defaults
}

// readLine produces the effective state for one line from the current
// stack.
func readLine(stack []*entry, doc *document.Document, line int, defaults model.Snapshot, nextTag int, blankRun []int) model.LinePermission {
	cur := topCovering(stack, line)
	if cur < 0 {
		return model.LinePermission{Line: line, Snapshot: defaults}
	}

	// Trailing whitespace: a blank line in the blank tail of a
	// non-context entry takes the permissions one level below, unless
	// the entry's declared scope is file, which intentionally claims
	// trailing whitespace.
	e := stack[cur]
	if doc.IsBlank(line) && !e.context && !e.fileScope {
		tail := e.end
		if nextTag-1 < tail {
			tail = nextTag - 1
		}
		if blankRun[line] >= tail {
			if below := topCoveringBelow(stack, cur, line); below >= 0 {
				cur = below
				e = stack[cur]
			}
		}
	}

	snap := refineContext(stack, cur, line, defaults)

	var identifier string
	if e.src != nil {
		identifier = e.src.Identifier
	}
	return model.LinePermission{Line: line, Snapshot: snap, Identifier: identifier}
}

// refineContext computes the per-actor state reading from entry index
// cur downward. If any covering entry at or below cur holds context
// for an actor, the whole line is context for that actor, rendered
// with the nearest non-context permission found scanning down.
func refineContext(stack []*entry, cur, line int, defaults model.Snapshot) model.Snapshot {
	actors := map[string]bool{model.ActorAI: true, model.ActorHuman: true}
	for i := cur; i >= 0; i-- {
		if !covers(stack[i], line) {
			continue
		}
		for a := range stack[i].snap.Extra {
			actors[a] = true
		}
	}

	out := model.Snapshot{}
	for actor := range actors {
		inContext := false
		render := model.AccessUnset
		for i := cur; i >= 0; i-- {
			if !covers(stack[i], line) {
				continue
			}
			st := stack[i].snap.Get(actor)
			if st.IsContext() {
				inContext = true
				if render == model.AccessUnset {
					render = st.Access()
				}
				continue
			}
			if st.Access() != model.AccessUnset && render == model.AccessUnset {
				render = st.Access()
			}
			if render != model.AccessUnset {
				break
			}
		}
		if render == model.AccessUnset {
			render = defaults.Get(actor).Access()
		}
		if inContext {
			out = out.Set(actor, model.ContextState(render))
		} else {
			out = out.Set(actor, model.Plain(render))
		}
	}
	return out
}

func covers(e *entry, line int) bool {
	return e.start <= line && line <= e.end
}

func topCovering(stack []*entry, line int) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if covers(stack[i], line) {
			return i
		}
	}
	return -1
}

func topCoveringBelow(stack []*entry, from, line int) int {
	for i := from - 1; i >= 0; i-- {
		if covers(stack[i], line) {
			return i
		}
	}
	return -1
}

// nextTagLines returns, for every line, the line of the next tag
// strictly after it (total+1 when none).
func nextTagLines(tags []*model.GuardTag, total int) []int {
	tagAt := make(map[int]bool, len(tags))
	for _, t := range tags {
		tagAt[t.Line] = true
	}
	next := make([]int, total+2)
	n := total + 1
	for line := total; line >= 0; line-- {
		next[line] = n
		if tagAt[line] {
			n = line
		}
	}
	return next
}

// blankRuns returns, for every line, the last line of the blank run
// starting there (the line itself when it has content).
func blankRuns(doc *document.Document) []int {
	total := doc.LineCount()
	run := make([]int, total+2)
	last := total
	for line := total; line >= 1; line-- {
		if doc.IsBlank(line) {
			run[line] = last
		} else {
			run[line] = line
			last = line - 1
		}
	}
	return run
}
