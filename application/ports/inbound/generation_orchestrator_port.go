package inbound

import (
	"context"

	"github.com/larrybrager-personal/talking-pet-backend/domain"
)

// GenerationOrchestratorPort exposes the two supported workflows. Both are
// synchronous from the caller's perspective: the call returns only once the
// workflow reaches a terminal state.
type GenerationOrchestratorPort interface {
	RunVideoOnly(ctx context.Context, request domain.GenerationRequest) (*domain.GenerationResult, error)
	RunSpeechAndVideo(ctx context.Context, request domain.GenerationRequest) (*domain.GenerationResult, error)
}
