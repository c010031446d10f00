package logs

import (
	"context"

	"github.com/google/uuid"
)

// NewSpan starts a span for a run or a compilation. parent defaults to the span in ctx.
type NewSpan func(ctx context.Context, parent Span, what string) (context.Context, Span)

func (Module) NewSpan(
	logger Logger,
) NewSpan {
	return func(ctx context.Context, parent Span, what string) (context.Context, Span) {

		var creatorSpan Span
		if v := ctx.Value(SpanKey); v != nil {
			creatorSpan = v.(Span)
		}
		if parent == "" {
			parent = creatorSpan
		}

		span := Span(uuid.NewString())
		ctx = context.WithValue(ctx, SpanKey, span)

		args := []any{"what", what}
		if creatorSpan != "" && creatorSpan != parent {
			args = append(args, "creator", creatorSpan)
		}
		if parent != "" {
			args = append(args, "parent", parent)
		}
		logger.DebugContext(ctx, "new span", args...)

		return ctx, span
	}
}
