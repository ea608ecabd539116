package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cfg "github.com/mockview/interview-pipeline/config"
	"github.com/mockview/interview-pipeline/scoring"
	"github.com/mockview/interview-pipeline/vision"
)

// collaborators fakes every external service on one server.
func collaborators(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/transcribe", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("diarization") == "false" {
			io.WriteString(w, `{"segments":[],"text":"음 그러니까 고루틴은 경량 스레드입니다"}`)
			return
		}
		half := strings.Repeat("가", 350)
		fmt.Fprintf(w, `{"segments":[{"text":%q,"start":0,"end":60000},{"text":%q,"start":60000,"end":120000}]}`, half, half)
	})
	mux.HandleFunc("/pitch", func(w http.ResponseWriter, r *http.Request) {
		f0 := make([]string, 90)
		for i := range f0 {
			f0[i] = "180"
			if i%2 == 1 {
				f0[i] = "220"
			}
		}
		fmt.Fprintf(w, `{"f0":[%s,null,null]}`, strings.Join(f0, ","))
	})
	mux.HandleFunc("/evaluate", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"similarity":0.8,"intent_score":8,"knowledge_score":7,"model_answer":"고루틴은 Go 런타임이 관리하는 경량 스레드입니다.","strengths":["정의가 정확함"],"improvements":["예시 부족"],"final_feedback":"핵심을 짚었습니다."}`)
	})
	mux.HandleFunc("/generate-radar", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"ok","path":"/charts/radar.png"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeFrameLog(t *testing.T, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frames.jsonl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	for i := 0; i < n; i++ {
		rec := FrameRecord{
			TimestampMS: int64(i) * 100,
			Frame:       &vision.Frame{Width: 640, Height: 480, Pose: uprightPose()},
			Emotions:    []string{"긍정"},
		}
		if err := enc.Encode(rec); err != nil {
			t.Fatal(err)
		}
	}
	io.WriteString(f, "{not json}\n\n")
	return path
}

func testConfig(t *testing.T, url string) *cfg.Root {
	c := &cfg.Root{}
	c.Pipeline.TimeoutSec = 5
	c.Services.ASR.URL = url
	c.Services.Pitch.URL = url
	c.Services.Content.URL = url
	c.Services.Visualization.URL = url
	c.Analysis.Diarize = true
	c.Paths.Outputs = t.TempDir()
	return c
}

func TestPipelineRun(t *testing.T) {
	srv := collaborators(t)
	c := testConfig(t, srv.URL)
	p := NewPipeline(c, &FileSink{Root: c.Paths.Outputs}, quietLog())

	audio := filepath.Join(t.TempDir(), "answer.wav")
	if err := os.WriteFile(audio, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := p.Run(context.Background(), Job{
		QuestionID:   "q-1",
		Question:     "고루틴이란 무엇인가요?",
		QuestionType: "기술형",
		FramesPath:   writeFrameLog(t, 10),
		AudioPath:    audio,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := res.Breakdown

	if res.Frames != 10 {
		t.Errorf("expected 10 frames, got %d", res.Frames)
	}
	// fillers come from the undiarized transcript
	if b.Voice.Scores.Speed != 40 || b.Voice.Scores.Filler != 36 || b.Voice.Scores.Pitch != 20 || b.Voice.Total != 96 {
		t.Errorf("unexpected voice scores %+v total %d", b.Voice.Scores, b.Voice.Total)
	}
	if b.Text.Score != 73 || !b.Text.Available {
		t.Errorf("unexpected text result %+v", b.Text)
	}
	if b.Emotion.Score != 100 || b.Emotion.Dominant != "positive" {
		t.Errorf("unexpected emotion %+v", b.Emotion)
	}
	// pose only: the video score rests on posture alone
	if b.Video.ShoulderHandScore != 100 || b.Video.VideoScore != 100 || !b.Video.Degraded {
		t.Errorf("unexpected video %+v", b.Video)
	}
	if len(b.Degraded) != 1 || b.Degraded[0] != scoring.ReasonVideoDegraded {
		t.Errorf("expected only video degradation, got %v", b.Degraded)
	}
	// 73*.5 + 96*.3 + 100*.1 + 100*.1
	if b.Composite != 85.3 {
		t.Errorf("expected composite 85.3, got %v", b.Composite)
	}
	if res.RadarPath != "/charts/radar.png" {
		t.Errorf("unexpected radar path %q", res.RadarPath)
	}

	matches, _ := filepath.Glob(filepath.Join(c.Paths.Outputs, "session_*", "record.json"))
	if len(matches) != 1 {
		t.Fatalf("expected one persisted record, got %v", matches)
	}
	raw, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	var rec scoring.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatal(err)
	}
	if rec.FinalSpeechScore != 96 || rec.EmotionBest != "긍정" || rec.QuestionType != "기술형" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestPipelineDegradesOnCollaboratorFailure(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	url := down.URL
	down.Close()

	c := testConfig(t, url)
	p := NewPipeline(c, nopSink{}, quietLog())

	audio := filepath.Join(t.TempDir(), "answer.wav")
	if err := os.WriteFile(audio, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := p.Run(context.Background(), Job{QuestionID: "q-2", FramesPath: writeFrameLog(t, 3), AudioPath: audio})
	if err != nil {
		t.Fatalf("collaborator failures must not fail the run: %v", err)
	}
	got := map[string]bool{}
	for _, r := range res.Breakdown.Degraded {
		got[r] = true
	}
	for _, r := range []string{scoring.ReasonContentUnavailable, scoring.ReasonSpeedUnusable, scoring.ReasonPitchInsufficient} {
		if !got[r] {
			t.Errorf("expected %s in %v", r, res.Breakdown.Degraded)
		}
	}
	if res.RadarPath != "" {
		t.Errorf("radar should be skipped, got %q", res.RadarPath)
	}
}

func TestPipelineWithoutFrames(t *testing.T) {
	p := NewPipeline(testConfig(t, ""), nopSink{}, quietLog())
	res, err := p.Run(context.Background(), Job{QuestionID: "q-3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Frames != 0 || !res.Breakdown.Video.Degraded {
		t.Errorf("expected degraded empty video, got %+v", res.Breakdown.Video)
	}
}

func TestPipelineMissingFrameLog(t *testing.T) {
	p := NewPipeline(testConfig(t, ""), nopSink{}, quietLog())
	_, err := p.Run(context.Background(), Job{FramesPath: filepath.Join(t.TempDir(), "missing.jsonl")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
