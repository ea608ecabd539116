package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. INTERVIEW_SERVICES_ASR_URL.
const EnvPrefix = "INTERVIEW"

type Service struct {
	URL string `yaml:"url" mapstructure:"url"`
}
type Services struct {
	ASR           Service `yaml:"asr" mapstructure:"asr"`
	Landmarks     Service `yaml:"landmarks" mapstructure:"landmarks"`
	Emotion       Service `yaml:"emotion" mapstructure:"emotion"`
	Pitch         Service `yaml:"pitch" mapstructure:"pitch"`
	Content       Service `yaml:"content" mapstructure:"content"`
	Visualization Service `yaml:"visualization" mapstructure:"visualization"`
}
type Analysis struct {
	BlinkThreshold float64  `yaml:"blink_threshold" mapstructure:"blink_threshold"`
	BlinkCooldown  int      `yaml:"blink_cooldown" mapstructure:"blink_cooldown"`
	GazeWeight     float64  `yaml:"gaze_weight" mapstructure:"gaze_weight"`
	Diarize        bool     `yaml:"diarize" mapstructure:"diarize"`
	Fillers        []string `yaml:"fillers,omitempty" mapstructure:"fillers"`
}
type Sink struct {
	Kind       string `yaml:"kind" mapstructure:"kind"` // file | amqp | mqtt | none
	AMQPURL    string `yaml:"amqp_url" mapstructure:"amqp_url"`
	Exchange   string `yaml:"exchange" mapstructure:"exchange"`
	RoutingKey string `yaml:"routing_key" mapstructure:"routing_key"`
	MQTTBroker string `yaml:"mqtt_broker" mapstructure:"mqtt_broker"`
	Topic      string `yaml:"topic" mapstructure:"topic"`
}
type Root struct {
	Pipeline struct {
		Name       string `yaml:"name" mapstructure:"name"`
		Version    string `yaml:"version" mapstructure:"version"`
		LogLvl     string `yaml:"log_level" mapstructure:"log_level"`
		LogFormat  string `yaml:"log_format" mapstructure:"log_format"`
		TimeoutSec int    `yaml:"timeout_sec" mapstructure:"timeout_sec"`
	} `yaml:"pipeline" mapstructure:"pipeline"`
	Services Services `yaml:"services" mapstructure:"services"`
	Analysis Analysis `yaml:"analysis" mapstructure:"analysis"`
	Sink     Sink     `yaml:"sink" mapstructure:"sink"`
	Paths    struct {
		Data    string `yaml:"data" mapstructure:"data"`
		Outputs string `yaml:"outputs" mapstructure:"outputs"`
	} `yaml:"paths" mapstructure:"paths"`
}

var defaults = map[string]any{
	"pipeline.name":              "interview-pipeline",
	"pipeline.version":           "dev",
	"pipeline.log_level":         "info",
	"pipeline.log_format":        "text",
	"pipeline.timeout_sec":       60,
	"services.asr.url":           "",
	"services.landmarks.url":     "",
	"services.emotion.url":       "",
	"services.pitch.url":         "",
	"services.content.url":       "",
	"services.visualization.url": "",
	"analysis.blink_threshold":   0.015,
	"analysis.blink_cooldown":    5,
	"analysis.gaze_weight":       0.6,
	"analysis.diarize":           true,
	"analysis.fillers":           []string{},
	"sink.kind":                  "file",
	"sink.amqp_url":              "",
	"sink.exchange":              "interview.results",
	"sink.routing_key":           "answer.scored",
	"sink.mqtt_broker":           "",
	"sink.topic":                 "interview/results",
	"paths.data":                 "data",
	"paths.outputs":              "outputs",
}

// Load reads the YAML config at path, or the first file found in the
// per-environment guess list when path is empty. A .env file in the working
// directory is loaded first; INTERVIEW_* variables override file values.
func Load(path string) (*Root, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	file, err := resolve(path)
	if err != nil {
		return nil, err
	}
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := v.ReadConfig(f); err != nil {
			return nil, fmt.Errorf("config %s: %w", file, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config decode: %w", err)
	}
	return &cfg, nil
}

func resolve(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config %s: %w", path, err)
		}
		return path, nil
	}
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	guess := []string{
		filepath.Join("config", env, "config.yaml"),
		filepath.Join("src", "shared", "config.yaml"),
	}
	for _, p := range guess {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	return "", nil
}

// YAML renders the effective configuration.
func (r *Root) YAML() ([]byte, error) { return yaml.Marshal(r) }

func (r *Root) Timeout() time.Duration { return DurSeconds(r.Pipeline.TimeoutSec) }

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
