package scoring

import (
	"math"
	"strings"
)

type QuestionType string

const (
	Conceptual  QuestionType = "conceptual"
	Technical   QuestionType = "technical"
	Situational QuestionType = "situational"
	Behavioral  QuestionType = "behavioral"

	DefaultQuestionType = Conceptual
)

var koreanTypes = map[string]QuestionType{
	"개념설명형": Conceptual,
	"기술형":   Technical,
	"상황형":   Situational,
	"행동형":   Behavioral,
}

// ParseQuestionType accepts English names and the Korean type tags. Unknown
// tags fall back to the default type and report ok=false.
func ParseQuestionType(s string) (t QuestionType, ok bool) {
	s = strings.TrimSpace(s)
	if qt, found := koreanTypes[s]; found {
		return qt, true
	}
	qt := QuestionType(strings.ToLower(s))
	if _, found := weightTable[qt]; found {
		return qt, true
	}
	return DefaultQuestionType, false
}

func (t QuestionType) Korean() string {
	for k, v := range koreanTypes {
		if v == t {
			return k
		}
	}
	return ""
}

// WeightVector splits the composite over the four modalities. Every vector
// sums to 1.
type WeightVector struct {
	Text    float64 `json:"text"`
	Voice   float64 `json:"voice"`
	Emotion float64 `json:"emotion"`
	Video   float64 `json:"video"`
}

func (w WeightVector) Sum() float64 { return w.Text + w.Voice + w.Emotion + w.Video }

var weightTable = map[QuestionType]WeightVector{
	Conceptual:  {Text: 0.5, Voice: 0.2, Emotion: 0.1, Video: 0.2},
	Technical:   {Text: 0.5, Voice: 0.3, Emotion: 0.1, Video: 0.1},
	Situational: {Text: 0.4, Voice: 0.15, Emotion: 0.25, Video: 0.2},
	Behavioral:  {Text: 0.4, Voice: 0.2, Emotion: 0.2, Video: 0.2},
}

func Weights(t QuestionType) WeightVector {
	if w, ok := weightTable[t]; ok {
		return w
	}
	return weightTable[DefaultQuestionType]
}

// Modalities are the four 0..100 scores that enter the composite.
type Modalities struct {
	Text    float64 `json:"text"`
	Voice   float64 `json:"voice"`
	Emotion float64 `json:"emotion"`
	Video   float64 `json:"video"`
}

// Composite is the weighted sum of the modality scores rounded to one
// decimal.
func Composite(t QuestionType, m Modalities) float64 {
	w := Weights(t)
	v := m.Text*w.Text + m.Voice*w.Voice + m.Emotion*w.Emotion + m.Video*w.Video
	return math.Round(v*10) / 10
}
