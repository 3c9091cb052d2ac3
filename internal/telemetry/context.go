package telemetry

import "context"

type (
	turnIDKey         struct{}
	conversationIDKey struct{}
)

// WithTurnID returns a child context that carries the id of one orchestration run.
// If ctx is nil, context.Background() is used
func WithTurnID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, turnIDKey{}, id)
}

// TurnIDFromContext returns the turn ID from ctx, if present.
// Returns "", false if the value is missing or not a non-empty string.
func TurnIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, turnIDKey{})
}

// WithConversationID returns a child context bound to a conversation.
func WithConversationID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, conversationIDKey{}, id)
}

// ConversationIDFromContext returns the conversation id from ctx, if present.
func ConversationIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, conversationIDKey{})
}

func stringValue(ctx context.Context, key any) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(key).(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
