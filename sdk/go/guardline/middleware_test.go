package guardline

import (
	"context"
	"errors"
	"testing"
)

func TestWrapBlocksGuardedLine(t *testing.T) {
	c := newTestClient(t)
	wrapped := c.Wrap(func(ctx context.Context, edit Edit) (any, error) {
		t.Fatal("edit function should not be called")
		return nil, nil
	})

	_, err := wrapped(context.Background(), Edit{
		Path: "src/main.py",
		Text: guardedSource,
		Line: 2,
	})

	var blocked *BlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected *BlockedError, got %T: %v", err, err)
	}
	if blocked.State != "none" {
		t.Errorf("expected state none, got %q", blocked.State)
	}
	if blocked.Edit.Line != 2 {
		t.Errorf("expected line 2 in error, got %d", blocked.Edit.Line)
	}
}

func TestWrapAllowsUnguardedLine(t *testing.T) {
	c := newTestClient(t)
	called := false
	wrapped := c.Wrap(func(ctx context.Context, edit Edit) (any, error) {
		called = true
		return "applied", nil
	})

	out, err := wrapped(context.Background(), Edit{
		Path:   "src/main.py",
		Text:   guardedSource,
		Line:   5,
		Access: Read,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("edit function was not called")
	}
	if out != "applied" {
		t.Errorf("expected wrapped return value, got %v", out)
	}
}

func TestWrapActorOverride(t *testing.T) {
	c := newTestClient(t)
	wrapped := c.Wrap(func(ctx context.Context, edit Edit) (any, error) {
		return nil, nil
	}, WrapWithActor("human"))

	// Human holds write by default, so even the function body guarded
	// against ai passes.
	_, err := wrapped(context.Background(), Edit{
		Path: "src/main.py",
		Text: guardedSource,
		Line: 2,
	})
	if err != nil {
		t.Fatalf("expected human write to pass, got %v", err)
	}
}
