package orchestrator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileSink writes each delivery into its own session directory under the
// outputs root.
type FileSink struct {
	Root string
}

func mkSessionDir(outputsRoot, sessionID string, at time.Time) (string, error) {
	name := "session_" + at.Format("20060102-150405")
	if len(sessionID) >= 8 {
		name += "_" + sessionID[:8]
	}
	dir := filepath.Join(outputsRoot, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *FileSink) Deliver(_ context.Context, d Delivery) error {
	dir, err := mkSessionDir(s.Root, d.SessionID, d.GeneratedAt)
	if err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "breakdown.json"), d.Breakdown); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "record.json"), d.Record)
}

func (s *FileSink) Close() error { return nil }
