package clients

import (
	"context"
	"strconv"

	"github.com/mockview/interview-pipeline/speech"
)

// ASRResp is a transcript with millisecond segment timing.
type ASRResp struct {
	Segments []speech.Segment `json:"segments"`
	Text     string           `json:"text"`
	Language string           `json:"language"`
}

// FullText prefers the engine's own transcript and falls back to the joined
// segments.
func (r *ASRResp) FullText() string {
	if r.Text != "" {
		return r.Text
	}
	return speech.JoinText(r.Segments)
}

func (h *HTTP) ASR(ctx context.Context, url, wavPath string, diarize bool) (*ASRResp, error) {
	var out ASRResp
	fields := map[string]string{"diarization": strconv.FormatBool(diarize)}
	if err := h.postFile(ctx, "asr", url+"/transcribe", wavPath, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
