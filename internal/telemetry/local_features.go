package telemetry

import (
	"context"

	"github.com/petasbytes/simplemath/internal/metrics"
)

// EmitLocalFeatures records text feature counts of a user request, including
// the number of Han characters.
func EmitLocalFeatures(ctx context.Context, user string) {
	if !ObserveEnabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	f := metrics.CountFeatures(user)
	Emit("local_features", map[string]any{
		"turn_id":          turnID,
		"features_version": "1",
		"user": map[string]any{
			"bytes": f.Bytes,
			"runes": f.Runes,
			"words": f.Words,
			"lines": f.Lines,
			"han":   f.Han,
		},
	})
}
