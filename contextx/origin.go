package contextx

import "context"

// Origin identifies where a dispatch entered the pipeline.
type Origin string

const (
	// OriginLocal marks a dispatch made in-process through the Pipeline.
	OriginLocal Origin = "local"
	// OriginRemote marks a dispatch submitted over the remote transport.
	OriginRemote Origin = "remote"
)

// WithOrigin returns a derived context that carries the given Origin.
func WithOrigin(ctx context.Context, o Origin) context.Context {
	return context.WithValue(ctx, originKey, o)
}

// OriginFromContext extracts the Origin stored in ctx. Dispatches that
// never passed a transport carry no origin value; OriginLocal is
// returned for those.
func OriginFromContext(ctx context.Context) Origin {
	if o, ok := ctx.Value(originKey).(Origin); ok {
		return o
	}
	return OriginLocal
}
