package telemetry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/simplemath/internal/telemetry"
)

func TestEmitLocalFeatures_CountsOnly(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{"chinese_request", "画一个旋转的正方形", map[string]any{"bytes": 27.0, "runes": 9.0, "words": 1.0, "lines": 1.0, "han": 9.0}},
		{"mixed_multiline", "draw 正弦波\nplease", map[string]any{"bytes": 21.0, "runes": 15.0, "words": 3.0, "lines": 2.0, "han": 3.0}},
		{"empty", "", map[string]any{"bytes": 0.0, "runes": 0.0, "words": 0.0, "lines": 0.0, "han": 0.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := observeInto(t, t.TempDir())
			ctx := telemetry.WithTurnID(context.Background(), "turn-"+tt.name)

			telemetry.EmitLocalFeatures(ctx, tt.input)

			events := readEvents(t, path)
			require.Len(t, events, 1)
			e := events[0]
			assert.Equal(t, "local_features", e["event"])
			assert.Equal(t, "turn-"+tt.name, e["turn_id"])
			assert.Equal(t, tt.want, e["user"])

			if tt.input != "" {
				raw, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.NotContains(t, string(raw), tt.input)
			}
		})
	}
}

func TestEmitLocalFeatures_ObserveOff(t *testing.T) {
	if telemetry.ObserveEnabled() {
		t.Skip("SM_OBSERVE_JSON enabled for this process")
	}
	dir := t.TempDir()
	t.Setenv("SM_ARTIFACTS_DIR", dir)

	telemetry.EmitLocalFeatures(context.Background(), "画圆")

	_, err := os.Stat(filepath.Join(dir, "events.jsonl"))
	assert.True(t, os.IsNotExist(err))
}
