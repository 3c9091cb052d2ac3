// Package telemetry appends structured JSONL events describing orchestration
// runs. Events carry sizes and counts only, never prompt or reply text.
package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// Emit writes a single JSON line to <artifacts dir>/events.jsonl when SM_OBSERVE_JSON=1.
// It augments fields with RFC3339Nano time and the event name.
func Emit(name string, fields map[string]any) {
	if !ObserveEnabled() {
		return
	}

	// Make a shallow copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		m[k] = v
	}
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = name

	b, err := json.Marshal(m)
	if err != nil {
		log.WithError(err).WithField("event", name).Warn("telemetry: marshal")
		return
	}

	dir := ArtifactsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.WithError(err).WithField("dir", dir).Warn("telemetry: mkdir")
		return
	}

	path := filepath.Join(dir, "events.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("telemetry: open")
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		log.WithError(err).WithField("path", path).Warn("telemetry: write")
	}
}
