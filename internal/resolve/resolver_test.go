package resolve

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/guardline-dev/guardline/internal/document"
	"github.com/guardline-dev/guardline/internal/model"
	"github.com/guardline-dev/guardline/internal/scopemap"
	"github.com/guardline-dev/guardline/internal/syntax"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	table := scopemap.Default()
	return New(syntax.NewProvider(table), table)
}

func resolveOne(t *testing.T, doc *document.Document, tag *model.GuardTag) *model.GuardTag {
	t.Helper()
	if err := newResolver(t).ResolveAll(context.Background(), doc, []*model.GuardTag{tag}, nil); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return tag
}

func TestLineCountClampedToDocument(t *testing.T) {
	doc := document.New("f.txt", "plaintext", "a\nb\nc\nd\ne")
	tag := &model.GuardTag{Line: 4, LineCount: 10, Claims: model.Snapshot{AI: model.Plain(model.AccessRead)}}

	resolveOne(t, doc, tag)

	if tag.ScopeStart != 4 || tag.ScopeEnd != 5 {
		t.Errorf("got [%d, %d], want [4, 5]", tag.ScopeStart, tag.ScopeEnd)
	}
}

func TestFileScope(t *testing.T) {
	doc := document.New("f.txt", "plaintext", "a\nb\nc\nd")
	tag := &model.GuardTag{Line: 2, Scope: model.ScopeFile, Claims: model.Snapshot{AI: model.Plain(model.AccessNone)}}

	resolveOne(t, doc, tag)

	if tag.ScopeStart != 2 || tag.ScopeEnd != 4 {
		t.Errorf("got [%d, %d], want [2, 4]", tag.ScopeStart, tag.ScopeEnd)
	}
}

func TestImplicitRangeStopsBeforeNextTag(t *testing.T) {
	doc := document.New("f.txt", "plaintext", "alpha\nbeta\n\n\ngamma")
	first := &model.GuardTag{Line: 1, Claims: model.Snapshot{AI: model.Plain(model.AccessWrite)}}
	second := &model.GuardTag{Line: 5, Claims: model.Snapshot{AI: model.Plain(model.AccessRead)}}

	if err := newResolver(t).ResolveAll(context.Background(), doc, []*model.GuardTag{first, second}, nil); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Trailing blanks before the next tag are trimmed back to content.
	if first.ScopeStart != 1 || first.ScopeEnd != 2 {
		t.Errorf("first: got [%d, %d], want [1, 2]", first.ScopeStart, first.ScopeEnd)
	}
	if second.ScopeStart != 5 || second.ScopeEnd != 5 {
		t.Errorf("second: got [%d, %d], want [5, 5]", second.ScopeStart, second.ScopeEnd)
	}
}

const goSource = `package demo

// Add returns the sum.
func Add(a, b int) int {
	return a + b
}

func Sub(a, b int) int {
	return a - b
}
`

func TestFuncScopeCoversConstruct(t *testing.T) {
	doc := document.New("f.go", "go", goSource)
	tag := &model.GuardTag{Line: 3, Scope: model.ScopeFunc, Claims: model.Snapshot{AI: model.Plain(model.AccessNone)}}

	resolveOne(t, doc, tag)

	// From the tag line to the closing brace of Add; Sub is untouched.
	if tag.ScopeStart != 3 || tag.ScopeEnd != 6 {
		t.Errorf("got [%d, %d], want [3, 6]", tag.ScopeStart, tag.ScopeEnd)
	}
}

func TestSigScopeEndsAtDeclaration(t *testing.T) {
	doc := document.New("f.go", "go", goSource)
	tag := &model.GuardTag{Line: 3, Scope: model.ScopeSig, Claims: model.Snapshot{AI: model.Plain(model.AccessRead)}}

	resolveOne(t, doc, tag)

	if tag.ScopeStart != 3 || tag.ScopeEnd != 4 {
		t.Errorf("got [%d, %d], want [3, 4]", tag.ScopeStart, tag.ScopeEnd)
	}
}

func TestBodyScopeExcludesDelimiters(t *testing.T) {
	doc := document.New("f.go", "go", goSource)
	tag := &model.GuardTag{Line: 3, Scope: model.ScopeBody, Claims: model.Snapshot{AI: model.Plain(model.AccessWrite)}}

	resolveOne(t, doc, tag)

	if tag.ScopeStart != 5 || tag.ScopeEnd != 5 {
		t.Errorf("got [%d, %d], want [5, 5]", tag.ScopeStart, tag.ScopeEnd)
	}
}

func TestBlockInsideFunctionCoversIt(t *testing.T) {
	src := `package demo

func Outer() int {
	x := 1
	return x
}

var y = 2
`
	doc := document.New("f.go", "go", src)
	tag := &model.GuardTag{Line: 4, Scope: model.ScopeBlock, Claims: model.Snapshot{AI: model.Plain(model.AccessNone)}}

	resolveOne(t, doc, tag)

	// Inside a function the block resolves to the enclosing construct.
	if tag.ScopeStart != 4 || tag.ScopeEnd != 6 {
		t.Errorf("got [%d, %d], want [4, 6]", tag.ScopeStart, tag.ScopeEnd)
	}
}

func TestBlockAtEndOfFileFallsToImplicit(t *testing.T) {
	src := `package demo

func Only() int {
	return 1
}`
	doc := document.New("f.go", "go", src)
	tag := &model.GuardTag{Line: 2, Scope: model.ScopeBlock, Claims: model.Snapshot{AI: model.Plain(model.AccessWrite)}}

	resolveOne(t, doc, tag)

	// A candidate reaching end of file was not really located; the
	// implicit policy extends to the last content line instead.
	if tag.ScopeStart != 2 || tag.ScopeEnd != doc.LastContentLine(doc.LineCount()) {
		t.Errorf("got [%d, %d]", tag.ScopeStart, tag.ScopeEnd)
	}
}

func TestStatementSpanFollowsOpenBrackets(t *testing.T) {
	src := `package demo

func f() {
	// marker
	x := compute(
		1,
	)
	y := 2
	_ = x
	_ = y
}
`
	doc := document.New("f.go", "go", src)
	tag := &model.GuardTag{Line: 4, Scope: model.ScopeStmt, Claims: model.Snapshot{AI: model.Plain(model.AccessNone)}}

	resolveOne(t, doc, tag)

	if tag.ScopeStart != 4 || tag.ScopeEnd != 7 {
		t.Errorf("got [%d, %d], want [4, 7]", tag.ScopeStart, tag.ScopeEnd)
	}
}

func TestMappedScopeWithoutNodeIsHardFailure(t *testing.T) {
	src := `package demo

func f() {}
`
	doc := document.New("f.go", "go", src)
	tag := &model.GuardTag{Line: 2, Scope: model.ScopeClass, Claims: model.Snapshot{AI: model.Plain(model.AccessRead)}}

	err := newResolver(t).ResolveAll(context.Background(), doc, []*model.GuardTag{tag}, nil)
	if err == nil {
		t.Fatal("expected a hard failure")
	}
	var inc *model.InconsistencyError
	if !errors.As(err, &inc) {
		t.Fatalf("got %T: %v", err, err)
	}
	if inc.Language != "go" || inc.Scope != model.ScopeClass || inc.Line != 2 {
		t.Errorf("error fields: %+v", inc)
	}
}

func TestUnmappedKeywordUsesImplicitRange(t *testing.T) {
	src := `package demo

var a = 1
var b = 2
`
	doc := document.New("f.go", "go", src)
	tag := &model.GuardTag{Line: 2, Scope: "section", Claims: model.Snapshot{AI: model.Plain(model.AccessRead)}}

	resolveOne(t, doc, tag)

	if tag.ScopeStart != 2 || tag.ScopeEnd != 4 {
		t.Errorf("got [%d, %d], want [2, 4]", tag.ScopeStart, tag.ScopeEnd)
	}
}

func TestContextSpanWalksDocumentation(t *testing.T) {
	src := `package demo

// lead-in
// explains the helper
//
// and more
func Thing() {}
`
	doc := document.New("f.go", "go", src)
	tag := &model.GuardTag{Line: 3, Scope: model.ScopeContext, Claims: model.Snapshot{AI: model.ContextState(model.AccessUnset)}}

	resolveOne(t, doc, tag)

	if tag.ScopeStart != 3 || tag.ScopeEnd != 6 {
		t.Errorf("got [%d, %d], want [3, 6]", tag.ScopeStart, tag.ScopeEnd)
	}
}

func TestContextSpanTrimsTrailingBlanks(t *testing.T) {
	src := `package demo

// docs

func Thing() {}
`
	doc := document.New("f.go", "go", src)
	tag := &model.GuardTag{Line: 3, Scope: model.ScopeContext, Claims: model.Snapshot{AI: model.ContextState(model.AccessUnset)}}

	resolveOne(t, doc, tag)

	if tag.ScopeEnd != 3 {
		t.Errorf("end: got %d, want 3 (blank before code excluded)", tag.ScopeEnd)
	}
}

func TestContextSpanStopsBeforeNextTag(t *testing.T) {
	src := `package demo

// first run
// still first
// second tag sits here
// beyond
func Thing() {}
`
	doc := document.New("f.go", "go", src)
	first := &model.GuardTag{Line: 3, Scope: model.ScopeContext, Claims: model.Snapshot{AI: model.ContextState(model.AccessUnset)}}
	second := &model.GuardTag{Line: 5, Scope: model.ScopeContext, Claims: model.Snapshot{Human: model.ContextState(model.AccessUnset)}}

	if err := newResolver(t).ResolveAll(context.Background(), doc, []*model.GuardTag{first, second}, nil); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if first.ScopeEnd != 4 {
		t.Errorf("first end: got %d, want 4", first.ScopeEnd)
	}
	if second.ScopeEnd != 6 {
		t.Errorf("second end: got %d, want 6", second.ScopeEnd)
	}
}

func TestFallbackBraceMatching(t *testing.T) {
	src := strings.Join([]string{
		"# note",
		"routine main() {",
		"  do things",
		"}",
		"done",
	}, "\n")
	doc := document.New("f.txt", "plaintext", src)
	tag := &model.GuardTag{Line: 1, Scope: model.ScopeFunc, Claims: model.Snapshot{AI: model.Plain(model.AccessRead)}}

	resolveOne(t, doc, tag)

	if tag.ScopeStart != 1 || tag.ScopeEnd != 4 {
		t.Errorf("got [%d, %d], want [1, 4]", tag.ScopeStart, tag.ScopeEnd)
	}
}

func TestFallbackIndentWalk(t *testing.T) {
	src := strings.Join([]string{
		"# note",
		"routine main:",
		"    step one",
		"    step two",
		"end",
	}, "\n")
	doc := document.New("f.txt", "plaintext", src)
	tag := &model.GuardTag{Line: 1, Scope: model.ScopeFunc, Claims: model.Snapshot{AI: model.Plain(model.AccessWrite)}}

	resolveOne(t, doc, tag)

	if tag.ScopeStart != 1 || tag.ScopeEnd != 4 {
		t.Errorf("got [%d, %d], want [1, 4]", tag.ScopeStart, tag.ScopeEnd)
	}
}

func TestContextSpanWithoutTreeUsesCommentPrefixes(t *testing.T) {
	src := strings.Join([]string{
		"# tag sits here",
		"# more notes",
		"",
		"actual content",
	}, "\n")
	doc := document.New("f.txt", "plaintext", src)
	tag := &model.GuardTag{Line: 1, Scope: model.ScopeContext, Claims: model.Snapshot{AI: model.ContextState(model.AccessUnset)}}

	resolveOne(t, doc, tag)

	if tag.ScopeStart != 1 || tag.ScopeEnd != 2 {
		t.Errorf("got [%d, %d], want [1, 2]", tag.ScopeStart, tag.ScopeEnd)
	}
}
