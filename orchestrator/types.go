package orchestrator

import (
	"time"

	"github.com/mockview/interview-pipeline/scoring"
	"github.com/mockview/interview-pipeline/vision"
)

// Job is one answered question: the recorded frame log plus the answer audio.
type Job struct {
	QuestionID   string
	Question     string
	QuestionType string // English or Korean tag
	FramesPath   string // JSONL of FrameRecord
	AudioPath    string // wav
}

// FrameRecord is one line of a frame log. Either Frame carries landmarks
// already extracted, or Image points at an encoded frame for the landmark and
// emotion services.
type FrameRecord struct {
	TimestampMS int64         `json:"ts_ms"`
	Frame       *vision.Frame `json:"frame,omitempty"`
	Emotions    []string      `json:"emotions,omitempty"`
	Image       string        `json:"image,omitempty"`
}

// Delivery is what a sink hands to persistence.
type Delivery struct {
	SessionID   string            `json:"session_id"`
	QuestionID  string            `json:"question_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Record      scoring.Record    `json:"record"`
	Counters    vision.Counters   `json:"counters"`
	Breakdown   scoring.Breakdown `json:"breakdown"`
}

type Result struct {
	SessionID string            `json:"session_id"`
	Breakdown scoring.Breakdown `json:"breakdown"`
	Frames    int               `json:"frames"`
	RadarPath string            `json:"radar_path,omitempty"`
}
