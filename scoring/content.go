package scoring

import "math"

// ContentEvaluation is what the semantic evaluator returns for one answer.
// Similarity is in [0,1]; intent and knowledge are in [1,10].
type ContentEvaluation struct {
	Similarity     float64  `json:"similarity"`
	IntentScore    float64  `json:"intent_score"`
	KnowledgeScore float64  `json:"knowledge_score"`
	ModelAnswer    string   `json:"model_answer"`
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	FinalFeedback  string   `json:"final_feedback"`
}

type evaluationKind int

const (
	kindTechnical evaluationKind = iota
	kindSituational
)

type contentWeights struct{ similarity, intent, knowledge float64 }

var contentTable = map[evaluationKind]contentWeights{
	kindTechnical:   {similarity: 0.2, intent: 0.3, knowledge: 0.5},
	kindSituational: {similarity: 0.3, intent: 0.35, knowledge: 0.35},
}

func kindOf(t QuestionType) evaluationKind {
	switch t {
	case Situational, Behavioral:
		return kindSituational
	}
	return kindTechnical
}

// TextScore folds the evaluator's sub-scores into a 0..100 content score.
// Knowledge weighs most for conceptual and technical questions.
func TextScore(t QuestionType, ev ContentEvaluation) int {
	w := contentTable[kindOf(t)]
	sim := clamp(ev.Similarity, 0, 1)
	intent := (clamp(ev.IntentScore, 1, 10) - 1) / 9
	knowledge := (clamp(ev.KnowledgeScore, 1, 10) - 1) / 9
	return int(math.RoundToEven((sim*w.similarity + intent*w.intent + knowledge*w.knowledge) * 100))
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
