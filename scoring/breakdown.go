package scoring

import (
	"github.com/mockview/interview-pipeline/emotion"
	"github.com/mockview/interview-pipeline/speech"
	"github.com/mockview/interview-pipeline/vision"
)

// Degradation reasons reported in Breakdown.Degraded.
const (
	ReasonContentUnavailable = "content_unavailable"
	ReasonSpeedUnusable      = "speed_unusable"
	ReasonPitchInsufficient  = "pitch_insufficient"
	ReasonNoEmotionFrames    = "no_emotion_frames"
	ReasonVideoDegraded      = "video_degraded"
)

// Inputs are the finished per-modality results of one answered question.
// Content is nil when the evaluator could not be reached.
type Inputs struct {
	QuestionID   string
	QuestionType QuestionType
	Transcript   string
	Content      *ContentEvaluation
	Voice        speech.Feedback
	Emotion      emotion.Summary
	Video        vision.FinalScore
}

type TextResult struct {
	ContentEvaluation
	Score     int  `json:"final_text_score"`
	Available bool `json:"available"`
}

// Breakdown is the per-question output contract. Field names and ranges are
// stable; consumers persist it as is.
type Breakdown struct {
	QuestionID   string            `json:"question_id,omitempty"`
	QuestionType QuestionType      `json:"question_type"`
	Weights      WeightVector      `json:"weights"`
	Transcript   string            `json:"transcript"`
	Text         TextResult        `json:"text"`
	Voice        speech.Feedback   `json:"voice"`
	Emotion      emotion.Summary   `json:"emotion"`
	Video        vision.FinalScore `json:"video"`
	Modalities   Modalities        `json:"modality_scores"`
	Composite    float64           `json:"composite_score"`
	Degraded     []string          `json:"degraded,omitempty"`
}

// Compose weights the modality results. It performs no analysis of its own.
func Compose(in Inputs) Breakdown {
	qt := in.QuestionType
	if _, ok := weightTable[qt]; !ok {
		qt = DefaultQuestionType
	}

	b := Breakdown{
		QuestionID:   in.QuestionID,
		QuestionType: qt,
		Weights:      Weights(qt),
		Transcript:   in.Transcript,
		Voice:        in.Voice,
		Emotion:      in.Emotion,
		Video:        in.Video,
	}
	if in.Content != nil {
		b.Text = TextResult{
			ContentEvaluation: *in.Content,
			Score:             TextScore(qt, *in.Content),
			Available:         true,
		}
	} else {
		b.Degraded = append(b.Degraded, ReasonContentUnavailable)
	}
	if !in.Voice.SpeedUsable {
		b.Degraded = append(b.Degraded, ReasonSpeedUnusable)
	}
	if in.Voice.PitchStatus == speech.PitchInsufficient {
		b.Degraded = append(b.Degraded, ReasonPitchInsufficient)
	}
	if in.Emotion.Frames == 0 {
		b.Degraded = append(b.Degraded, ReasonNoEmotionFrames)
	}
	if in.Video.Degraded {
		b.Degraded = append(b.Degraded, ReasonVideoDegraded)
	}

	b.Modalities = Modalities{
		Text:    float64(b.Text.Score),
		Voice:   float64(in.Voice.Total),
		Emotion: float64(in.Emotion.Score),
		Video:   float64(in.Video.VideoScore),
	}
	b.Composite = Composite(qt, b.Modalities)
	return b
}

// Record is the flat row shape the persistence service stores per answer.
type Record struct {
	QuestionID     string  `json:"question_id"`
	QuestionType   string  `json:"question_type"`
	Similarity     float64 `json:"similarity"`
	IntentScore    float64 `json:"intent_score"`
	KnowledgeScore float64 `json:"knowledge_score"`
	FinalTextScore int     `json:"final_text_score"`

	SpeedScore       int    `json:"speed_score"`
	FillerScore      int    `json:"filler_score"`
	PitchScore       int    `json:"pitch_score"`
	FinalSpeechScore int    `json:"final_speech_score"`
	SpeedLabel       string `json:"speed_label"`
	FluencyLabel     string `json:"fluency_label"`
	ToneLabel        string `json:"tone_label"`

	GazeScore       int `json:"gaze_score"`
	ShoulderWarning int `json:"shoulder_warning"`
	HandWarning     int `json:"hand_warning"`
	PostureScore    int `json:"posture_score"`
	FinalVideoScore int `json:"final_video_score"`

	PositiveRate int    `json:"positive_rate"`
	NeutralRate  int    `json:"neutral_rate"`
	NegativeRate int    `json:"negative_rate"`
	TenseRate    int    `json:"tense_rate"`
	EmotionBest  string `json:"emotion_best"`
	EmotionScore int    `json:"emotion_score"`

	CompositeScore float64 `json:"composite_score"`
}

func (b Breakdown) Record() Record {
	best := string(b.Emotion.Dominant)
	if b.Emotion.Dominant.Valid() {
		best = b.Emotion.Dominant.Korean()
	}
	return Record{
		QuestionID:     b.QuestionID,
		QuestionType:   b.QuestionType.Korean(),
		Similarity:     b.Text.Similarity,
		IntentScore:    b.Text.IntentScore,
		KnowledgeScore: b.Text.KnowledgeScore,
		FinalTextScore: b.Text.Score,

		SpeedScore:       b.Voice.Scores.Speed,
		FillerScore:      b.Voice.Scores.Filler,
		PitchScore:       b.Voice.Scores.Pitch,
		FinalSpeechScore: b.Voice.Total,
		SpeedLabel:       b.Voice.Labels.Speed,
		FluencyLabel:     b.Voice.Labels.Fluency,
		ToneLabel:        b.Voice.Labels.Tone,

		GazeScore:       b.Video.GazeRateScore,
		ShoulderWarning: b.Video.ShoulderWarnings,
		HandWarning:     b.Video.HandWarnings,
		PostureScore:    b.Video.ShoulderHandScore,
		FinalVideoScore: b.Video.VideoScore,

		PositiveRate: b.Emotion.Distribution[emotion.Positive],
		NeutralRate:  b.Emotion.Distribution[emotion.Neutral],
		NegativeRate: b.Emotion.Distribution[emotion.Negative],
		TenseRate:    b.Emotion.Distribution[emotion.Tense],
		EmotionBest:  best,
		EmotionScore: b.Emotion.Score,

		CompositeScore: b.Composite,
	}
}
