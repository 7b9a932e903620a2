// Package guardline provides in-process line permission checks for Go
// agent frameworks. It resolves inline @guard tags into per-line access
// states and gates edit functions at boundaries agents cannot bypass.
//
// Usage:
//
//	gl, err := guardline.New(guardline.WithActor("ai"))
//	wrapped := gl.Wrap(applyEdit)
//	result, err := wrapped(ctx, guardline.Edit{
//	    Path:   "src/main.py",
//	    Line:   42,
//	    Access: guardline.Write,
//	})
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import github.com/guardline-dev/guardline/sdk/go/guardline.
package guardline
