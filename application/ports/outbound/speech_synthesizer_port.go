package outbound

import (
	"context"

	"github.com/larrybrager-personal/talking-pet-backend/domain"
)

type SynthesizeParams struct {
	Text    string
	VoiceID string
}

// SpeechSynthesizerPort converts a short script into an audio track.
// Implementations enforce the input length limit before any network call
// and the output size cap after it.
type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, params SynthesizeParams) (*domain.SpeechArtifact, error)
}
