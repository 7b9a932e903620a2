package stack

import (
	"strings"
	"testing"

	"github.com/guardline-dev/guardline/internal/document"
	"github.com/guardline-dev/guardline/internal/model"
)

func docOfLines(n int) *document.Document {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line"
	}
	return document.New("test", "plaintext", strings.Join(lines, "\n"))
}

func aiTag(line int, access model.Access, start, end int) *model.GuardTag {
	return &model.GuardTag{
		Line:       line,
		Claims:     model.Snapshot{AI: model.Plain(access)},
		ScopeStart: start,
		ScopeEnd:   end,
	}
}

func TestDefaultInheritance(t *testing.T) {
	doc := docOfLines(5)
	out := Resolve(doc, nil, model.DefaultSnapshot())

	if len(out) != 6 {
		t.Fatalf("expected 6 entries (line 0 + 5 lines), got %d", len(out))
	}
	for line := 0; line <= 5; line++ {
		lp := out[line]
		if lp.Snapshot.AI != model.Plain(model.AccessRead) {
			t.Errorf("line %d ai: got %s", line, lp.Snapshot.AI)
		}
		if lp.Snapshot.Human != model.Plain(model.AccessWrite) {
			t.Errorf("line %d human: got %s", line, lp.Snapshot.Human)
		}
		if lp.Snapshot.HasContext() {
			t.Errorf("line %d: unexpected context", line)
		}
	}
}

func TestLineCountExtent(t *testing.T) {
	doc := docOfLines(10)
	tag := aiTag(3, model.AccessWrite, 3, 5)
	tag.LineCount = 3

	out := Resolve(doc, []*model.GuardTag{tag}, model.DefaultSnapshot())

	for line := 3; line <= 5; line++ {
		if out[line].Snapshot.AI != model.Plain(model.AccessWrite) {
			t.Errorf("line %d: got %s, want write", line, out[line].Snapshot.AI)
		}
	}
	// Line 6 reverts to the previously inherited state.
	if out[6].Snapshot.AI != model.Plain(model.AccessRead) {
		t.Errorf("line 6: got %s, want read", out[6].Snapshot.AI)
	}
	// The human actor is untouched throughout.
	if out[4].Snapshot.Human != model.Plain(model.AccessWrite) {
		t.Errorf("line 4 human: got %s", out[4].Snapshot.Human)
	}
}

func TestNestedInheritance(t *testing.T) {
	doc := docOfLines(12)
	outer := aiTag(1, model.AccessNone, 1, 12)
	inner := &model.GuardTag{
		Line:       4,
		LineCount:  3,
		Claims:     model.Snapshot{Human: model.Plain(model.AccessRead)},
		ScopeStart: 4,
		ScopeEnd:   6,
	}

	out := Resolve(doc, []*model.GuardTag{outer, inner}, model.DefaultSnapshot())

	// Inside the inner range, the ai permission is inherited from the
	// outer entry, not from defaults.
	if out[5].Snapshot.AI != model.Plain(model.AccessNone) {
		t.Errorf("line 5 ai: got %s, want none (inherited)", out[5].Snapshot.AI)
	}
	if out[5].Snapshot.Human != model.Plain(model.AccessRead) {
		t.Errorf("line 5 human: got %s, want read", out[5].Snapshot.Human)
	}
	// After the inner range expires, the outer entry resumes.
	if out[7].Snapshot.Human != model.Plain(model.AccessWrite) {
		t.Errorf("line 7 human: got %s, want write", out[7].Snapshot.Human)
	}
	if out[7].Snapshot.AI != model.Plain(model.AccessNone) {
		t.Errorf("line 7 ai: got %s, want none", out[7].Snapshot.AI)
	}
}

func TestContextNonResumption(t *testing.T) {
	doc := docOfLines(15)
	a := aiTag(1, model.AccessWrite, 1, 15)
	b := &model.GuardTag{
		Line:       5,
		Scope:      model.ScopeContext,
		Claims:     model.Snapshot{AI: model.ContextState(model.AccessUnset)},
		ScopeStart: 5,
		ScopeEnd:   10,
	}

	out := Resolve(doc, []*model.GuardTag{a, b}, model.DefaultSnapshot())

	// Within B's range the line is context, rendered with A's write.
	if !out[7].Snapshot.AI.IsContext() {
		t.Fatal("line 7 must be context for ai")
	}
	if out[7].Snapshot.AI.Access() != model.AccessWrite {
		t.Errorf("line 7 render access: got %s, want write", out[7].Snapshot.AI.Access())
	}

	// Past B's end, A's permissions apply and context must not resume.
	for line := 11; line <= 15; line++ {
		if out[line].Snapshot.AI.IsContext() {
			t.Errorf("line %d: context resumed after interruption", line)
		}
		if out[line].Snapshot.AI.Access() != model.AccessWrite {
			t.Errorf("line %d: got %s, want A's write", line, out[line].Snapshot.AI.Access())
		}
	}
}

func TestNewTagInterruptsContext(t *testing.T) {
	doc := docOfLines(12)
	ctx := &model.GuardTag{
		Line:       2,
		Scope:      model.ScopeContext,
		Claims:     model.Snapshot{AI: model.ContextState(model.AccessRead)},
		ScopeStart: 2,
		ScopeEnd:   12,
	}
	plain := aiTag(6, model.AccessWrite, 6, 8)
	plain.LineCount = 3

	out := Resolve(doc, []*model.GuardTag{ctx, plain}, model.DefaultSnapshot())

	if !out[4].Snapshot.AI.IsContext() {
		t.Error("line 4 must be context")
	}
	if out[7].Snapshot.AI.IsContext() {
		t.Error("line 7: plain tag must interrupt context")
	}
	// The context entry was popped by the new tag and never resumes,
	// even though its range ran to line 12.
	if out[10].Snapshot.AI.IsContext() {
		t.Error("line 10: interrupted context must not resume")
	}
	if out[10].Snapshot.AI != model.Plain(model.AccessRead) {
		t.Errorf("line 10: got %s, want default read", out[10].Snapshot.AI)
	}
}

func TestBlockShorteningPostProcess(t *testing.T) {
	lines := make([]string, 25)
	for i := range lines {
		lines[i] = "code"
	}
	lines[17] = "" // blank before the later tag
	lines[18] = ""
	doc := document.New("test", "plaintext", strings.Join(lines, "\n"))

	blockTag := aiTag(2, model.AccessWrite, 2, 25)
	blockTag.Scope = model.ScopeBlock
	later := aiTag(20, model.AccessNone, 20, 25)

	out := Resolve(doc, []*model.GuardTag{blockTag, later}, model.DefaultSnapshot())

	// The open-ended block is cut back to the last non-blank line
	// before the later tag.
	if blockTag.ScopeEnd != 17 {
		t.Errorf("block end: got %d, want 17", blockTag.ScopeEnd)
	}
	if out[17].Snapshot.AI != model.Plain(model.AccessWrite) {
		t.Errorf("line 17: got %s, want write", out[17].Snapshot.AI)
	}
	// Between the shortened block and the later tag, defaults rule.
	if out[19].Snapshot.AI != model.Plain(model.AccessRead) {
		t.Errorf("line 19: got %s, want default read", out[19].Snapshot.AI)
	}
	if out[22].Snapshot.AI != model.Plain(model.AccessNone) {
		t.Errorf("line 22: got %s, want none", out[22].Snapshot.AI)
	}
}

func TestBlockNotShortenedForDifferentActor(t *testing.T) {
	doc := docOfLines(20)
	blockTag := aiTag(2, model.AccessWrite, 2, 20)
	blockTag.Scope = model.ScopeBlock
	humanTag := &model.GuardTag{
		Line:       10,
		Claims:     model.Snapshot{Human: model.Plain(model.AccessRead)},
		ScopeStart: 10,
		ScopeEnd:   20,
	}

	Resolve(doc, []*model.GuardTag{blockTag, humanTag}, model.DefaultSnapshot())

	if blockTag.ScopeEnd != 20 {
		t.Errorf("block must not shorten for an unrelated actor, got end %d", blockTag.ScopeEnd)
	}
}

func TestTrailingWhitespaceFallsThrough(t *testing.T) {
	lines := []string{"a", "b", "c", "d", "", "", "z"}
	doc := document.New("test", "plaintext", strings.Join(lines, "\n"))

	tag := aiTag(2, model.AccessWrite, 2, 6)

	out := Resolve(doc, []*model.GuardTag{tag}, model.DefaultSnapshot())

	if out[4].Snapshot.AI != model.Plain(model.AccessWrite) {
		t.Errorf("line 4: got %s, want write", out[4].Snapshot.AI)
	}
	// Lines 5-6 are the blank tail of the entry: permissions one
	// level below apply.
	for line := 5; line <= 6; line++ {
		if out[line].Snapshot.AI != model.Plain(model.AccessRead) {
			t.Errorf("line %d: got %s, want default read for blank tail", line, out[line].Snapshot.AI)
		}
	}
	if out[7].Snapshot.AI != model.Plain(model.AccessRead) {
		t.Errorf("line 7: got %s, want default read", out[7].Snapshot.AI)
	}
}

func TestFileScopeClaimsTrailingWhitespace(t *testing.T) {
	lines := []string{"a", "b", "", ""}
	doc := document.New("test", "plaintext", strings.Join(lines, "\n"))

	tag := aiTag(1, model.AccessNone, 1, 4)
	tag.Scope = model.ScopeFile

	out := Resolve(doc, []*model.GuardTag{tag}, model.DefaultSnapshot())

	for line := 1; line <= 4; line++ {
		if out[line].Snapshot.AI != model.Plain(model.AccessNone) {
			t.Errorf("line %d: file scope must claim blanks, got %s", line, out[line].Snapshot.AI)
		}
	}
}

func TestInterveningBlankIsNotTail(t *testing.T) {
	lines := []string{"a", "", "c", "d"}
	doc := document.New("test", "plaintext", strings.Join(lines, "\n"))

	tag := aiTag(1, model.AccessWrite, 1, 4)

	out := Resolve(doc, []*model.GuardTag{tag}, model.DefaultSnapshot())

	// Line 2 is blank but content follows within the entry: the
	// entry's own permissions apply.
	if out[2].Snapshot.AI != model.Plain(model.AccessWrite) {
		t.Errorf("line 2: got %s, want write", out[2].Snapshot.AI)
	}
}

func TestIdentifierCarried(t *testing.T) {
	doc := docOfLines(4)
	tag := aiTag(1, model.AccessWrite, 1, 4)
	tag.Identifier = "claude"

	out := Resolve(doc, []*model.GuardTag{tag}, model.DefaultSnapshot())

	if out[2].Identifier != "claude" {
		t.Errorf("identifier: got %q", out[2].Identifier)
	}
	if out[0].Identifier != "" {
		t.Error("synthetic line 0 must carry no identifier")
	}
}

func TestCustomActorFlowsThrough(t *testing.T) {
	doc := docOfLines(6)
	tag := &model.GuardTag{
		Line:       2,
		Claims:     model.Snapshot{}.Set("internal", model.Plain(model.AccessNone)),
		ScopeStart: 2,
		ScopeEnd:   4,
	}

	out := Resolve(doc, []*model.GuardTag{tag}, model.DefaultSnapshot())

	if out[3].Snapshot.Get("internal") != model.Plain(model.AccessNone) {
		t.Errorf("line 3 internal: got %s", out[3].Snapshot.Get("internal"))
	}
	// Fixed actors keep their defaults alongside the custom actor.
	if out[3].Snapshot.AI != model.Plain(model.AccessRead) {
		t.Errorf("line 3 ai: got %s", out[3].Snapshot.AI)
	}
	// Outside the range the custom actor vanishes from the output.
	if !out[5].Snapshot.Get("internal").IsUnset() {
		t.Errorf("line 5 internal: got %s, want unset", out[5].Snapshot.Get("internal"))
	}
}
