package speech

import (
	"context"
	"errors"
)

// ErrNoSpeech indicates the service returned no recognisable transcript.
// Callers recover by prompting the rep to speak again.
var ErrNoSpeech = errors.New("no speech detected")

// Transcriber converts captured audio into text. An empty transcript is
// reported as ErrNoSpeech, never as an empty string.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, languageHint string) (string, error)
}
