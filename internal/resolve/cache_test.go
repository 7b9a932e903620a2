package resolve

import (
	"testing"

	"github.com/guardline-dev/guardline/internal/model"
)

func TestCachePutGet(t *testing.T) {
	c := NewCache()
	tag := &model.GuardTag{Line: 10, Scope: model.ScopeFunc}

	if _, ok := c.Get(tag); ok {
		t.Fatal("empty cache must miss")
	}
	c.Put(tag, Boundary{Start: 10, End: 20, Type: model.ScopeFunc})

	b, ok := c.Get(tag)
	if !ok || b.Start != 10 || b.End != 20 {
		t.Fatalf("got %+v, ok=%v", b, ok)
	}

	// A different scope keyword on the same line is a distinct key.
	other := &model.GuardTag{Line: 10, Scope: model.ScopeClass}
	if _, ok := c.Get(other); ok {
		t.Error("scope keyword must participate in the key")
	}
}

func TestCacheInvalidateOverlap(t *testing.T) {
	c := NewCache()
	inside := &model.GuardTag{Line: 5, Scope: model.ScopeFunc}
	outside := &model.GuardTag{Line: 50, Scope: model.ScopeFunc}
	c.Put(inside, Boundary{Start: 5, End: 12, Type: model.ScopeFunc})
	c.Put(outside, Boundary{Start: 50, End: 60, Type: model.ScopeFunc})

	c.InvalidateOverlap(10, 20)

	if _, ok := c.Get(inside); ok {
		t.Error("overlapping entry must be dropped")
	}
	if _, ok := c.Get(outside); !ok {
		t.Error("disjoint entry must survive")
	}
	if c.Len() != 1 {
		t.Errorf("len: got %d, want 1", c.Len())
	}
}

func TestCacheShiftAfter(t *testing.T) {
	c := NewCache()
	before := &model.GuardTag{Line: 5, Scope: model.ScopeFunc}
	after := &model.GuardTag{Line: 30, Scope: model.ScopeFunc}
	c.Put(before, Boundary{Start: 5, End: 8, Type: model.ScopeFunc})
	c.Put(after, Boundary{Start: 30, End: 40, Type: model.ScopeFunc})

	// Three lines inserted at line 10.
	c.ShiftAfter(10, 3)

	if b, ok := c.Get(before); !ok || b.Start != 5 {
		t.Errorf("entry before the edit must not move: %+v ok=%v", b, ok)
	}

	shifted := &model.GuardTag{Line: 33, Scope: model.ScopeFunc}
	b, ok := c.Get(shifted)
	if !ok || b.Start != 33 || b.End != 43 {
		t.Errorf("shifted entry: got %+v ok=%v, want [33, 43]", b, ok)
	}
	if _, ok := c.Get(after); ok {
		t.Error("old key must be gone after the shift")
	}
}
