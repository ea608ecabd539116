package clients

import (
	"bytes"
	"context"

	"github.com/mockview/interview-pipeline/vision"
)

// Landmarks sends one encoded frame to the landmark service. A frame with no
// face or body comes back with nil parts and no error.
func (h *HTTP) Landmarks(ctx context.Context, url string, image []byte, tsMS int64) (*vision.Frame, error) {
	var out vision.Frame
	if err := h.postReader(ctx, "landmarks", url+"/landmarks", "frame.jpg", bytes.NewReader(image), nil, &out); err != nil {
		return nil, err
	}
	out.TimestampMS = tsMS
	return &out, nil
}
