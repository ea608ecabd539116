package orchestrator

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mockview/interview-pipeline/emotion"
	"github.com/mockview/interview-pipeline/vision"
)

var ErrAlreadyFinalized = errors.New("session already finalized")

// FrameFeedback is the live per-frame answer sent back while recording.
type FrameFeedback struct {
	vision.FrameResult
	Emotion string `json:"emotion"`
}

// Final is the flushed state of a session.
type Final struct {
	Video   vision.FinalScore `json:"video"`
	Emotion emotion.Summary   `json:"emotion"`
}

// Session owns the per-recording analyzer state. Frames must come from one
// goroutine; Finalize may race with it and runs at most once.
type Session struct {
	ID         string
	QuestionID string

	log      *logrus.Entry
	mu       sync.Mutex
	analyzer *vision.Analyzer
	emotions *emotion.Aggregator
	done     bool
	once     sync.Once
	final    Final
}

func NewSession(questionID string, p vision.Params, log *logrus.Entry) *Session {
	id := uuid.New().String()
	return &Session{
		ID:         id,
		QuestionID: questionID,
		log:        log.WithFields(logrus.Fields{"session_id": id, "question_id": questionID}),
		analyzer:   vision.NewAnalyzer(p),
		emotions:   emotion.NewAggregator(),
	}
}

// PushFrame classifies one frame and counts its emotion labels.
func (s *Session) PushFrame(f vision.Frame, labels []emotion.Label) (FrameFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return FrameFeedback{}, ErrAlreadyFinalized
	}
	res := s.analyzer.AnalyzeFrame(f)
	s.emotions.Observe(labels...)
	return FrameFeedback{FrameResult: res, Emotion: s.emotions.Current()}, nil
}

// Finalize flushes the session. Later calls return the same result.
func (s *Session) Finalize() Final {
	s.once.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.done = true
		s.final = Final{
			Video:   s.analyzer.FinalScore(),
			Emotion: s.emotions.Summary(),
		}
		s.log.WithFields(logrus.Fields{
			"frames":      s.final.Video.Counters.Frames,
			"video_score": s.final.Video.VideoScore,
			"calibrated":  s.final.Video.Calibrated,
			"emotion":     s.final.Emotion.Dominant,
		}).Info("session finalized")
	})
	return s.final
}

func (s *Session) FramesSeen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzer.Counters().Frames
}
