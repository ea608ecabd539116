package clients

import (
	"context"

	"github.com/mockview/interview-pipeline/scoring"
)

// --- Content evaluation (/evaluate) ---
type ContentReq struct {
	Question     string `json:"question"`
	Answer       string `json:"user_answer"`
	QuestionType string `json:"question_type"`
}

func (h *HTTP) EvaluateContent(ctx context.Context, url string, in ContentReq) (*scoring.ContentEvaluation, error) {
	var out scoring.ContentEvaluation
	if err := h.postJSON(ctx, "content", url+"/evaluate", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
