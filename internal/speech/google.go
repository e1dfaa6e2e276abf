package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/siamfield/salesflow/pkg/config"
)

// GoogleTranscriber calls the Google Speech-to-Text REST API.
type GoogleTranscriber struct {
	endpoint string
	apiKey   string
	language string
	client   *http.Client
}

// NewGoogleTranscriber builds a transcriber from config. The HTTP client
// timeout bounds every call; transcription must never wait unboundedly.
func NewGoogleTranscriber(cfg config.SpeechConfig) *GoogleTranscriber {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	language := cfg.Language
	if language == "" {
		language = "th-TH"
	}
	return &GoogleTranscriber{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		language: language,
		client:   &http.Client{Timeout: timeout},
	}
}

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	LanguageCode string `json:"languageCode"`
	Encoding     string `json:"encoding"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Transcribe sends the audio payload and returns the first transcript.
func (t *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte, languageHint string) (string, error) {
	if len(audio) == 0 {
		return "", ErrNoSpeech
	}
	language := languageHint
	if language == "" {
		language = t.language
	}

	payload, err := json.Marshal(recognizeRequest{
		Config: recognizeConfig{LanguageCode: language, Encoding: "LINEAR16"},
		Audio:  recognizeAudio{Content: base64.StdEncoding.EncodeToString(audio)},
	})
	if err != nil {
		return "", fmt.Errorf("marshal recognize request: %w", err)
	}

	endpoint := t.endpoint
	if t.apiKey != "" {
		endpoint += "?key=" + url.QueryEscape(t.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build recognize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognize call: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read recognize response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recognize call failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode recognize response: %w", err)
	}
	for _, result := range parsed.Results {
		for _, alt := range result.Alternatives {
			if text := strings.TrimSpace(alt.Transcript); text != "" {
				return text, nil
			}
		}
	}
	return "", ErrNoSpeech
}
