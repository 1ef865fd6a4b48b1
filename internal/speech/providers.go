package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPRecognizer transcribes audio through a hosted STT endpoint.
type HTTPRecognizer struct {
	url  string
	http *resty.Client
}

func NewHTTPRecognizer(url string) *HTTPRecognizer {
	return &HTTPRecognizer{
		url:  url,
		http: resty.New().SetTimeout(20 * time.Second),
	}
}

type sttRequest struct {
	Audio string `json:"audio"` // base64 PCM
	Lang  string `json:"lang"`
}

type sttResponse struct {
	Text string `json:"text"`
}

func (r *HTTPRecognizer) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var out sttResponse
	resp, err := r.http.R().
		SetContext(ctx).
		SetBody(sttRequest{Audio: base64.StdEncoding.EncodeToString(audio), Lang: "en-US"}).
		SetResult(&out).
		Post(r.url)
	if err != nil {
		return "", fmt.Errorf("stt request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("stt request: HTTP %d", resp.StatusCode())
	}
	if out.Text == "" {
		return "", ErrNoSpeech
	}
	return out.Text, nil
}

// HTTPSynthesizer renders text through a hosted TTS endpoint.
type HTTPSynthesizer struct {
	url  string
	http *resty.Client
}

func NewHTTPSynthesizer(url string) *HTTPSynthesizer {
	return &HTTPSynthesizer{
		url:  url,
		http: resty.New().SetTimeout(20 * time.Second),
	}
}

type ttsRequest struct {
	Text  string  `json:"text"`
	Rate  float64 `json:"rate"`
	Pitch float64 `json:"pitch"`
}

type ttsResponse struct {
	Audio string `json:"audio"` // base64 PCM
}

func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text string, rate, pitch float64) ([]byte, error) {
	var out ttsResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(ttsRequest{Text: text, Rate: rate, Pitch: pitch}).
		SetResult(&out).
		Post(s.url)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tts request: HTTP %d", resp.StatusCode())
	}
	audio, err := base64.StdEncoding.DecodeString(out.Audio)
	if err != nil {
		return nil, fmt.Errorf("tts response: %w", err)
	}
	return audio, nil
}
