package middleware

import "context"

// Compose nests the given transforms right to left into a single
// transform: Compose(a, b, c)(x) behaves as a(b(c(x))).
//
// With no transforms Compose returns the identity function, so a pipeline
// with no middleware degenerates to the terminal stage. With exactly one
// transform it is returned unchanged.
func Compose[T any](fns ...func(T) T) func(T) T {
	switch len(fns) {
	case 0:
		return func(v T) T { return v }
	case 1:
		return fns[0]
	}
	return func(v T) T {
		for i := len(fns) - 1; i >= 0; i-- {
			v = fns[i](v)
		}
		return v
	}
}

// cell is the indirection slot behind the API's forwarding dispatch. It
// is written exactly once, at the end of Assemble, before the effective
// dispatch escapes to any caller.
type cell struct {
	d Dispatch
}

func (c *cell) dispatch(ctx context.Context, action any) (any, error) {
	if c.d == nil {
		return nil, ErrDispatchDuringSetup
	}
	return c.d(ctx, action)
}

// Assemble instantiates each middleware in order against a shared API
// handle and nests the resulting handlers around base: mws[0] becomes the
// outermost wrapper, the last the innermost. A dispatch therefore runs
// each middleware's pre-next logic in slice order, then base (unless an
// earlier middleware intercepts), then the post-next logic in reverse.
//
// The API's Dispatch field forwards through an internal slot that is
// filled only after composition, so every middleware observes the final
// chain no matter how early it was instantiated. A panic during
// instantiation propagates to the caller; no partial chain escapes.
func Assemble(base Dispatch, getState func() any, mws ...Middleware) Dispatch {
	c := &cell{}
	api := API{Dispatch: c.dispatch, GetState: getState}

	wrappers := make([]func(Dispatch) Dispatch, len(mws))
	for i, mw := range mws {
		wrappers[i] = mw(api)
	}

	c.d = Compose(wrappers...)(base)
	return c.d
}
