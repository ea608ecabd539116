package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfg "github.com/mockview/interview-pipeline/config"
	"github.com/mockview/interview-pipeline/orchestrator"
	"github.com/mockview/interview-pipeline/scoring"
)

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "interview-pipeline",
		Short:         "Score mock interview answers from video frames and audio",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default config/$CONFIG_ENV/config.yaml)")

	root.AddCommand(analyzeCmd(&configPath), scoreCmd(), configCmd(&configPath))
	return root
}

// setup loads the config and builds the process logger from it.
func setup(path string) (*cfg.Root, *logrus.Entry, error) {
	conf, err := cfg.Load(path)
	if err != nil {
		return nil, nil, err
	}

	l := logrus.New()
	l.SetOutput(os.Stderr)
	if conf.Pipeline.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if lvl, err := logrus.ParseLevel(conf.Pipeline.LogLvl); err == nil {
		l.SetLevel(lvl)
	} else {
		l.WithField("level", conf.Pipeline.LogLvl).Warn("unknown log level, using info")
	}
	return conf, l.WithField("service", conf.Pipeline.Name), nil
}

func analyzeCmd(configPath *string) *cobra.Command {
	var (
		job        orchestrator.Job
		noProgress bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score one answered question from a frame log and an audio file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if job.FramesPath == "" && job.AudioPath == "" {
				return fmt.Errorf("at least one of --frames or --audio is required")
			}
			conf, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"version": conf.Pipeline.Version,
				"sink":    conf.Sink.Kind,
			}).Info("pipeline starting")

			sink, err := orchestrator.NewSink(conf, log)
			if err != nil {
				return err
			}
			defer sink.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := orchestrator.NewPipeline(conf, sink, log)
			p.Progress = !noProgress
			res, err := p.Run(ctx, job)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	f := cmd.Flags()
	f.StringVar(&job.FramesPath, "frames", "", "JSONL frame log")
	f.StringVar(&job.AudioPath, "audio", "", "answer audio (wav)")
	f.StringVar(&job.Question, "question", "", "question text sent to the content evaluator")
	f.StringVar(&job.QuestionID, "question-id", "", "question identifier")
	f.StringVarP(&job.QuestionType, "type", "t", string(scoring.DefaultQuestionType), "question type, English or Korean tag")
	f.BoolVar(&noProgress, "no-progress", false, "disable the frame progress bar")
	return cmd
}

func scoreCmd() *cobra.Command {
	var (
		qtype string
		m     scoring.Modalities
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the composite from four modality scores",
		RunE: func(cmd *cobra.Command, _ []string) error {
			qt, ok := scoring.ParseQuestionType(qtype)
			if !ok {
				return fmt.Errorf("unknown question type %q", qtype)
			}
			for name, v := range map[string]float64{"text": m.Text, "voice": m.Voice, "emotion": m.Emotion, "video": m.Video} {
				if v < 0 || v > 100 {
					return fmt.Errorf("--%s must be within 0..100, got %v", name, v)
				}
			}
			return printJSON(cmd, struct {
				QuestionType scoring.QuestionType `json:"question_type"`
				Weights      scoring.WeightVector `json:"weights"`
				Modalities   scoring.Modalities   `json:"modality_scores"`
				Composite    float64              `json:"composite_score"`
			}{qt, scoring.Weights(qt), m, scoring.Composite(qt, m)})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&qtype, "type", "t", string(scoring.DefaultQuestionType), "question type, English or Korean tag")
	f.Float64Var(&m.Text, "text", 0, "content score")
	f.Float64Var(&m.Voice, "voice", 0, "voice score")
	f.Float64Var(&m.Emotion, "emotion", 0, "emotion score")
	f.Float64Var(&m.Video, "video", 0, "video score")
	return cmd
}

func configCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := cfg.Load(*configPath)
			if err != nil {
				return err
			}
			out, err := conf.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
