package speech

import (
	"math"
	"strings"
	"unicode"
)

// Segment is one recognized stretch of an answer. Times are in milliseconds
// from the start of the recording.
type Segment struct {
	Text    string `json:"text"`
	StartMS int64  `json:"start"`
	EndMS   int64  `json:"end"`
}

type SpeedResult struct {
	SyllablesPerMin  float64 `json:"syllables_per_min"`
	WordsPerMin      float64 `json:"words_per_min"`
	TotalDurationSec float64 `json:"total_duration_sec"`
	TotalText        string  `json:"total_text"`
	// Usable is false when the segments carry no speaking time; rate based
	// scores must not be trusted then.
	Usable bool `json:"usable"`
}

// SpeechSpeed computes the articulation rate of an answer. Each non-space
// character counts as one syllable, which holds for Hangul.
func SpeechSpeed(segments []Segment) SpeedResult {
	var (
		text     strings.Builder
		duration float64
	)
	for _, s := range segments {
		text.WriteString(s.Text)
		duration += float64(s.EndMS-s.StartMS) / 1000
	}
	if duration <= 0 {
		return SpeedResult{}
	}

	joined := text.String()
	syllables := 0
	for _, r := range joined {
		if !unicode.IsSpace(r) {
			syllables++
		}
	}
	words := len(strings.Fields(joined))

	return SpeedResult{
		SyllablesPerMin:  round2(float64(syllables) / duration * 60),
		WordsPerMin:      round2(float64(words) / duration * 60),
		TotalDurationSec: round2(duration),
		TotalText:        strings.TrimSpace(joined),
		Usable:           true,
	}
}

// JoinText concatenates segment texts the way a plain transcript reads.
func JoinText(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
