package guardline

import (
	"context"
)

// EditFunc is the function signature that Wrap guards. The caller
// provides an Edit describing the intended line touch.
type EditFunc func(ctx context.Context, edit Edit) (any, error)

// Wrap returns a new EditFunc that checks line permissions before
// calling fn. If the actor lacks the required access, returns a
// *BlockedError without calling fn.
func (c *Client) Wrap(fn EditFunc, opts ...WrapOption) EditFunc {
	wcfg := wrapConfig{actor: c.cfg.actor}
	for _, o := range opts {
		o(&wcfg)
	}

	return func(ctx context.Context, edit Edit) (any, error) {
		if edit.Actor == "" {
			edit.Actor = wcfg.actor
		}

		result, err := c.Check(ctx, edit)
		if err != nil {
			return nil, err
		}
		if !result.Allowed {
			return nil, &BlockedError{
				Edit:  edit,
				Actor: result.Actor,
				State: result.State,
			}
		}

		return fn(ctx, edit)
	}
}
