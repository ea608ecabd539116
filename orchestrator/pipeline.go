package orchestrator

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mockview/interview-pipeline/clients"
	cfg "github.com/mockview/interview-pipeline/config"
	"github.com/mockview/interview-pipeline/emotion"
	"github.com/mockview/interview-pipeline/scoring"
	"github.com/mockview/interview-pipeline/speech"
	"github.com/mockview/interview-pipeline/vision"
)

const progressTemplate = `{{ string . "prefix" }} {{counters . "%s/%s" "%s/?"}} {{bar . }} {{percent . "%.01f%%" "?"}} {{etime . "%s elapsed"}}`

type Pipeline struct {
	cfg     *cfg.Root
	http    *clients.HTTP
	sink    Sink
	log     *logrus.Entry
	lexicon speech.Lexicon

	// Progress draws a bar while replaying frame logs.
	Progress bool
}

func NewPipeline(c *cfg.Root, sink Sink, log *logrus.Entry) *Pipeline {
	lex := speech.DefaultLexicon
	if len(c.Analysis.Fillers) > 0 {
		lex = speech.NewLexicon(c.Analysis.Fillers...)
	}
	return &Pipeline{
		cfg:     c,
		http:    clients.NewHTTP(c.Timeout()),
		sink:    sink,
		log:     log,
		lexicon: lex,
	}
}

func (p *Pipeline) visionParams() vision.Params {
	vp := vision.DefaultParams()
	if a := p.cfg.Analysis; a.BlinkThreshold > 0 {
		vp.BlinkThreshold = a.BlinkThreshold
	}
	if a := p.cfg.Analysis; a.BlinkCooldown > 0 {
		vp.BlinkCooldown = a.BlinkCooldown
	}
	if a := p.cfg.Analysis; a.GazeWeight > 0 && a.GazeWeight <= 1 {
		vp.GazeWeight = a.GazeWeight
	}
	return vp
}

// audioResult is everything the audio chain produces for one answer.
type audioResult struct {
	voice      speech.Feedback
	transcript string
	content    *scoring.ContentEvaluation
}

// Run scores one answered question. The frame log replay and the audio chain
// run concurrently; collaborator failures degrade the affected metric.
func (p *Pipeline) Run(ctx context.Context, job Job) (*Result, error) {
	qt, known := scoring.ParseQuestionType(job.QuestionType)
	sess := NewSession(job.QuestionID, p.visionParams(), p.log)
	log := sess.log
	if !known && job.QuestionType != "" {
		log.WithField("question_type", job.QuestionType).Warn("unknown question type, using default weights")
	}

	var audio audioResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.replay(gctx, sess, job.FramesPath)
	})
	g.Go(func() error {
		var err error
		audio, err = p.analyzeAudio(gctx, log, job, qt)
		return err
	})
	err := g.Wait()
	final := sess.Finalize()
	if err != nil {
		return nil, err
	}

	b := scoring.Compose(scoring.Inputs{
		QuestionID:   job.QuestionID,
		QuestionType: qt,
		Transcript:   audio.transcript,
		Content:      audio.content,
		Voice:        audio.voice,
		Emotion:      final.Emotion,
		Video:        final.Video,
	})
	log.WithFields(logrus.Fields{
		"composite": b.Composite,
		"degraded":  b.Degraded,
	}).Info("answer scored")

	res := &Result{SessionID: sess.ID, Breakdown: b, Frames: final.Video.Counters.Frames}
	if p.sink != nil {
		d := Delivery{
			SessionID:   sess.ID,
			QuestionID:  job.QuestionID,
			GeneratedAt: time.Now(),
			Record:      b.Record(),
			Counters:    final.Video.Counters,
			Breakdown:   b,
		}
		if err := p.sink.Deliver(ctx, d); err != nil {
			return res, err
		}
		log.Info("result delivered")
	}
	res.RadarPath = p.radar(ctx, log, b)
	return res, nil
}

// replay feeds a recorded frame log through the session in file order.
func (p *Pipeline) replay(ctx context.Context, sess *Session, path string) error {
	if path == "" {
		sess.log.WithError(ErrEmptyFrameLog).Warn("no frame log, video scored as degraded")
		return nil
	}

	var bar *pb.ProgressBar
	if p.Progress {
		if total, err := countLines(path); err == nil {
			bar = pb.ProgressBarTemplate(progressTemplate).Start(total)
			bar.Set("prefix", "frames")
			defer bar.Finish()
		}
	}

	n, bad, err := readFrameLog(path, func(rec FrameRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, labels := p.resolveFrame(ctx, sess.log, rec)
		if _, err := sess.PushFrame(frame, labels); err != nil {
			return err
		}
		if bar != nil {
			bar.Increment()
		}
		return nil
	})
	if bad > 0 {
		sess.log.WithField("lines", bad).Warn("skipped malformed frame log lines")
	}
	if err != nil {
		return err
	}
	if n == 0 {
		sess.log.WithError(ErrEmptyFrameLog).Warn("video scored as degraded")
	}
	return nil
}

// resolveFrame fills in landmarks and emotion labels from the services when
// the record only carries an image. Any failure is tracking loss for that
// frame.
func (p *Pipeline) resolveFrame(ctx context.Context, log *logrus.Entry, rec FrameRecord) (vision.Frame, []emotion.Label) {
	frame := vision.Frame{TimestampMS: rec.TimestampMS}
	if rec.Frame != nil {
		frame = *rec.Frame
		if frame.TimestampMS == 0 {
			frame.TimestampMS = rec.TimestampMS
		}
	}
	labels := parseLabels(rec.Emotions)

	if rec.Image == "" || (rec.Frame != nil && len(rec.Emotions) > 0) {
		return frame, labels
	}
	img, err := os.ReadFile(rec.Image)
	if err != nil {
		log.WithError(err).Debug("frame image unreadable")
		return frame, labels
	}
	if rec.Frame == nil && p.cfg.Services.Landmarks.URL != "" {
		if f, err := p.http.Landmarks(ctx, p.cfg.Services.Landmarks.URL, img, rec.TimestampMS); err == nil {
			frame = *f
		} else {
			log.WithError(err).Debug("landmarks failed")
		}
	}
	if len(rec.Emotions) == 0 && p.cfg.Services.Emotion.URL != "" {
		if l, err := p.http.Emotion(ctx, p.cfg.Services.Emotion.URL, img); err == nil {
			labels = l
		} else {
			log.WithError(err).Debug("emotion failed")
		}
	}
	return frame, labels
}

// analyzeAudio runs the transcription and pitch collaborators in parallel,
// then content evaluation on the transcript. It only fails on cancellation.
func (p *Pipeline) analyzeAudio(ctx context.Context, log *logrus.Entry, job Job, qt scoring.QuestionType) (audioResult, error) {
	var (
		segments   []speech.Segment
		plainText  string
		transcript string
		contour    []float64
	)
	svc := p.cfg.Services

	if job.AudioPath != "" {
		g, gctx := errgroup.WithContext(ctx)
		if svc.ASR.URL != "" {
			g.Go(func() error {
				asr, err := p.http.ASR(gctx, svc.ASR.URL, job.AudioPath, p.cfg.Analysis.Diarize)
				if err != nil {
					log.WithError(err).Warn("asr failed, speed not evaluated")
					return nil
				}
				segments, transcript = asr.Segments, asr.FullText()
				return nil
			})
			if p.cfg.Analysis.Diarize {
				// filler tagging wants the undiarized transcript
				g.Go(func() error {
					asr, err := p.http.ASR(gctx, svc.ASR.URL, job.AudioPath, false)
					if err != nil {
						log.WithError(err).Warn("plain asr failed, using diarized transcript for fillers")
						return nil
					}
					plainText = asr.FullText()
					return nil
				})
			}
		}
		if svc.Pitch.URL != "" {
			g.Go(func() error {
				c, err := p.http.PitchContour(gctx, svc.Pitch.URL, job.AudioPath)
				if err != nil {
					log.WithError(err).Warn("pitch failed, tone not evaluated")
					return nil
				}
				contour = c
				return nil
			})
		}
		_ = g.Wait()
	}
	if err := ctx.Err(); err != nil {
		return audioResult{}, err
	}

	if plainText == "" {
		plainText = transcript
	}
	out := audioResult{
		voice: speech.GenerateFeedback(
			speech.SpeechSpeed(segments),
			speech.PitchVariation(contour),
			p.lexicon.Find(plainText),
		),
		transcript: transcript,
	}

	if svc.Content.URL != "" && transcript != "" {
		ev, err := p.http.EvaluateContent(ctx, svc.Content.URL, clients.ContentReq{
			Question:     job.Question,
			Answer:       transcript,
			QuestionType: qt.Korean(),
		})
		switch {
		case err == nil:
			out.content = ev
		case errors.Is(err, context.Canceled):
			return audioResult{}, err
		default:
			log.WithError(err).Warn("content evaluation failed, text not scored")
		}
	}
	return out, nil
}

// radar asks the visualization service for a chart of the modality scores.
// It is optional and never fails the run.
func (p *Pipeline) radar(ctx context.Context, log *logrus.Entry, b scoring.Breakdown) string {
	url := p.cfg.Services.Visualization.URL
	if url == "" {
		return ""
	}
	m := b.Modalities
	resp, err := p.http.GenerateRadar(ctx, url, clients.RadarReq{
		Categories: []string{"text", "voice", "emotion", "video"},
		Values:     []float64{m.Text, m.Voice, m.Emotion, m.Video},
		Title:      b.QuestionID,
		OutputDir:  p.cfg.Paths.Outputs,
	})
	if err != nil {
		log.WithError(err).Warn("radar chart failed")
		return ""
	}
	return resp.Path
}
