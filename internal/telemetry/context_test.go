package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petasbytes/simplemath/internal/telemetry"
)

func TestContextIDs(t *testing.T) {
	ctx := telemetry.WithTurnID(context.Background(), "turn-1")
	ctx = telemetry.WithConversationID(ctx, "conv-1")

	turn, ok := telemetry.TurnIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "turn-1", turn)
	conv, ok := telemetry.ConversationIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "conv-1", conv)

	// A nested run rebinds the turn and keeps the conversation
	inner := telemetry.WithTurnID(ctx, "turn-2")
	turn, _ = telemetry.TurnIDFromContext(inner)
	assert.Equal(t, "turn-2", turn)
	conv, _ = telemetry.ConversationIDFromContext(inner)
	assert.Equal(t, "conv-1", conv)
}

func TestContextIDs_MissingOrEmpty(t *testing.T) {
	for name, ctx := range map[string]context.Context{
		"bare":  context.Background(),
		"empty": telemetry.WithConversationID(telemetry.WithTurnID(context.Background(), ""), ""),
	} {
		t.Run(name, func(t *testing.T) {
			_, ok := telemetry.TurnIDFromContext(ctx)
			assert.False(t, ok)
			_, ok = telemetry.ConversationIDFromContext(ctx)
			assert.False(t, ok)
		})
	}
}

func TestContextIDs_KeepCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx := telemetry.WithConversationID(telemetry.WithTurnID(parent, "t"), "c")
	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
