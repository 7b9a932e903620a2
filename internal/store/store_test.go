package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/guardline-dev/guardline/internal/engine"
	"github.com/guardline-dev/guardline/internal/model"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult() *engine.Result {
	return &engine.Result{
		DocID:   "src/main.py",
		Version: 1,
		Tags: []*model.GuardTag{{
			Line:       2,
			Scope:      model.ScopeFunc,
			Claims:     model.Snapshot{AI: model.Plain(model.AccessNone)},
			ScopeStart: 2,
			ScopeEnd:   5,
		}},
		Lines: map[int]model.LinePermission{
			0: {Line: 0, Snapshot: model.DefaultSnapshot()},
			1: {Line: 1, Snapshot: model.DefaultSnapshot()},
			2: {Line: 2, Snapshot: model.DefaultSnapshot().Set(model.ActorAI, model.Plain(model.AccessNone))},
		},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	hash := HashText("def f():\n    pass")

	if _, ok, err := s.Get(ctx, "src/main.py", hash); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	want := sampleResult()
	if err := s.Put(ctx, "src/main.py", hash, want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := s.Get(ctx, "src/main.py", hash)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.DocID != want.DocID || len(got.Tags) != 1 || got.Tags[0].ScopeEnd != 5 {
		t.Errorf("result mismatch: %+v", got)
	}
	if !got.Lines[2].Snapshot.Equal(want.Lines[2].Snapshot) {
		t.Errorf("line 2 snapshot: got %v", got.Lines[2].Snapshot)
	}
}

func TestChangedContentMisses(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	if err := s.Put(ctx, "a.py", HashText("v1"), sampleResult()); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok, err := s.Get(ctx, "a.py", HashText("v2")); err != nil || ok {
		t.Fatalf("changed content must miss: ok=%v err=%v", ok, err)
	}
}

func TestPutDropsStaleHashes(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	if err := s.Put(ctx, "a.py", HashText("v1"), sampleResult()); err != nil {
		t.Fatalf("put v1: %v", err)
	}
	if err := s.Put(ctx, "a.py", HashText("v2"), sampleResult()); err != nil {
		t.Fatalf("put v2: %v", err)
	}

	if _, ok, _ := s.Get(ctx, "a.py", HashText("v1")); ok {
		t.Error("old hash row must be gone after a newer put")
	}
	if _, ok, _ := s.Get(ctx, "a.py", HashText("v2")); !ok {
		t.Error("newest row must remain")
	}
}

func TestForget(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	hash := HashText("v1")

	if err := s.Put(ctx, "a.py", hash, sampleResult()); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Forget(ctx, "a.py"); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "a.py", hash); ok {
		t.Error("forgotten path must miss")
	}
}

func TestPruneRetention(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	if err := s.Put(ctx, "a.py", HashText("v1"), sampleResult()); err != nil {
		t.Fatalf("put: %v", err)
	}

	dropped, err := s.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if dropped != 0 {
		t.Errorf("fresh row dropped: %d", dropped)
	}

	dropped, err = s.Prune(ctx, -time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if dropped != 1 {
		t.Errorf("expired row survived: dropped=%d", dropped)
	}
}
