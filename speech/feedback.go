package speech

import (
	"fmt"
	"math"
	"strings"
)

type Scores struct {
	Speed  int `json:"speed"`
	Filler int `json:"filler"`
	Pitch  int `json:"pitch"`
}

type Labels struct {
	Speed   string `json:"speed"`
	Fluency string `json:"fluency"`
	Tone    string `json:"tone"`
}

// Feedback is the voice modality result for one answer.
type Feedback struct {
	Text        string      `json:"feedback"`
	Messages    []string    `json:"messages"`
	Scores      Scores      `json:"score_detail"`
	Total       int         `json:"final_speech_score"`
	Labels      Labels      `json:"labels"`
	FillerCount int         `json:"filler_count"`
	Fillers     []FillerHit `json:"fillers,omitempty"`
	SpeedUsable bool        `json:"speed_usable"`
	PitchStatus PitchStatus `json:"pitch_status"`
}

// GenerateFeedback scores the three voice metrics and writes one message per
// metric. Each message is chosen by the same band that selected the score.
func GenerateFeedback(speed SpeedResult, pitch PitchResult, fillers []FillerHit) Feedback {
	sb := SpeedBandOf(speed)
	fb := FluencyBandOf(len(fillers))
	tb := ToneBandOfResult(pitch)

	scores := Scores{
		Filler: FillerScore(len(fillers)),
		Pitch:  int(math.Round(PitchScore(pitch.Std))),
	}
	if sb != SpeedUnmeasured {
		scores.Speed = int(math.Round(SpeedScore(speed.SyllablesPerMin)))
	}

	msgs := []string{
		speedMessage(sb, speed.SyllablesPerMin),
		fillerMessage(fb, len(fillers)),
		pitchMessage(tb),
	}
	return Feedback{
		Text:     strings.Join(msgs, " "),
		Messages: msgs,
		Scores:   scores,
		Total:    scores.Speed + scores.Filler + scores.Pitch,
		Labels: Labels{
			Speed:   sb.Label(),
			Fluency: fb.Label(),
			Tone:    tb.Label(),
		},
		FillerCount: len(fillers),
		Fillers:     fillers,
		SpeedUsable: speed.Usable,
		PitchStatus: pitch.Status,
	}
}

func speedMessage(b SpeedBand, spm float64) string {
	switch b {
	case SpeedAdequate:
		return fmt.Sprintf("말의 속도가 적절합니다. (%.2f 음절/분)", spm)
	case SpeedSlow:
		return fmt.Sprintf("말의 속도가 다소 느립니다. (%.2f 음절/분) 조금 더 자신감 있게 말해보세요.", spm)
	case SpeedFast:
		return fmt.Sprintf("말의 속도가 빠릅니다. (%.2f 음절/분) 천천히 또박또박 말해보세요.", spm)
	}
	return "발화 시간이 확인되지 않아 말의 속도를 평가할 수 없습니다."
}

func fillerMessage(b FluencyBand, n int) string {
	switch b {
	case FluencySmooth:
		return "간투어 없이 명확하게 말했습니다!"
	case FluencyFair:
		return fmt.Sprintf("간투어가 %d회 사용되었습니다. 조금만 줄이면 더 매끄러워질 거예요.", n)
	}
	return fmt.Sprintf("간투어가 %d회 사용되었습니다. 말하기 전에 잠시 생각하고 말해보세요.", n)
}

func pitchMessage(b ToneBand) string {
	switch b {
	case ToneMonotonous:
		return "목소리 톤이 다소 단조롭습니다. 강조할 부분에서 억양을 살려보세요."
	case ToneBright:
		return "목소리 톤에 적절한 변화가 있습니다."
	}
	return "음성이 충분하지 않아 음조를 분석할 수 없습니다."
}
