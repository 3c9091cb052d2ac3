package telemetry

import (
	"os"
)

// DefaultArtifactsDir holds events.jsonl unless SM_ARTIFACTS_DIR is set.
const DefaultArtifactsDir = ".simplemath"

var observeEnabled bool

func init() {
	// Read once at process start. Mid-run environment changes have no effect.
	observeEnabled = os.Getenv("SM_OBSERVE_JSON") == "1"
}

// ObserveEnabled reports whether JSONL emission was enabled at startup.
func ObserveEnabled() bool {
	// Preserve startup-evaluated default, but allow tests to enable mid-run via env override.
	if os.Getenv("SM_OBSERVE_JSON") == "1" {
		return true
	}
	return observeEnabled
}

// ArtifactsDir returns the directory events are appended under.
func ArtifactsDir() string {
	if v := os.Getenv("SM_ARTIFACTS_DIR"); v != "" {
		return v
	}
	return DefaultArtifactsDir
}
