package orchestrator

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mockview/interview-pipeline/emotion"
)

var ErrEmptyFrameLog = errors.New("frame log has no frames")

const maxFrameLine = 4 << 20

// readFrameLog calls fn for every decodable line of a JSONL frame log in
// file order. Malformed lines are counted and skipped.
func readFrameLog(path string, fn func(rec FrameRecord) error) (n, bad int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64<<10), maxFrameLine)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec FrameRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			bad++
			continue
		}
		if err := fn(rec); err != nil {
			return n, bad, err
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, bad, fmt.Errorf("frame log %s: %w", path, err)
	}
	return n, bad, nil
}

// countLines sizes the progress bar; blank lines are not frames.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64<<10), maxFrameLine)
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) > 0 {
			n++
		}
	}
	return n, sc.Err()
}

func parseLabels(raw []string) []emotion.Label {
	out := make([]emotion.Label, 0, len(raw))
	for _, s := range raw {
		if l, err := emotion.ParseLabel(s); err == nil {
			out = append(out, l)
		}
	}
	return out
}
