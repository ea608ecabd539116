package clients

import (
	"context"
	"math"
)

// PitchResp carries one f0 estimate per analysis frame in Hz; unvoiced
// frames are null.
type PitchResp struct {
	F0 []*float64 `json:"f0"`
}

// PitchContour returns the f0 contour with unvoiced frames as NaN.
func (h *HTTP) PitchContour(ctx context.Context, url, wavPath string) ([]float64, error) {
	var out PitchResp
	if err := h.postFile(ctx, "pitch", url+"/pitch", wavPath, nil, &out); err != nil {
		return nil, err
	}
	contour := make([]float64, len(out.F0))
	for i, f := range out.F0 {
		if f == nil {
			contour[i] = math.NaN()
			continue
		}
		contour[i] = *f
	}
	return contour, nil
}
