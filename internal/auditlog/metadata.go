package auditlog

import "context"

type metadataKey struct{}

// Metadata carries contextual fields that commands attach before
// invoking a service, so recorded entries name the agent and cloud
// involved without plumbing them through every call.
type Metadata struct {
	Command string
	Agent   string
	Cloud   string
}

// WithMetadata returns a context carrying md.
func WithMetadata(ctx context.Context, md Metadata) context.Context {
	return context.WithValue(ctx, metadataKey{}, md)
}

// MetadataFromContext extracts metadata attached with WithMetadata.
func MetadataFromContext(ctx context.Context) (Metadata, bool) {
	md, ok := ctx.Value(metadataKey{}).(Metadata)
	return md, ok
}
