package clients

import (
	"bytes"
	"context"

	"github.com/mockview/interview-pipeline/emotion"
)

// MinEmotionConfidence drops low-confidence detections.
const MinEmotionConfidence = 0.5

// --- Emotion (/classify) ---
type EmoDetection struct {
	Label      string  `json:"label"`
	ClassID    *int    `json:"class_id,omitempty"`
	Confidence float64 `json:"confidence"`
}
type EmoResp struct {
	Detections []EmoDetection `json:"detections"`
}

// Emotion classifies every face in one encoded frame. Detections with an
// unknown label are skipped rather than failing the frame.
func (h *HTTP) Emotion(ctx context.Context, url string, image []byte) ([]emotion.Label, error) {
	var out EmoResp
	if err := h.postReader(ctx, "emotion", url+"/classify", "frame.jpg", bytes.NewReader(image), nil, &out); err != nil {
		return nil, err
	}

	labels := make([]emotion.Label, 0, len(out.Detections))
	for _, d := range out.Detections {
		if d.Confidence < MinEmotionConfidence {
			continue
		}
		l, err := emotion.ParseLabel(d.Label)
		if err != nil && d.ClassID != nil {
			l, err = emotion.LabelForClass(*d.ClassID)
		}
		if err != nil {
			continue
		}
		labels = append(labels, l)
	}
	return labels, nil
}
