package outbound

import (
	"context"

	"github.com/larrybrager-personal/talking-pet-backend/domain"
)

type SubmitJobParams struct {
	ModelID    string
	ImageURL   string
	Prompt     string
	Seconds    int
	Resolution string
	// AudioURL is set only for models that consume the speech track at
	// generation time.
	AudioURL string
}

// VideoJobRunnerPort drives the asynchronous video generation provider:
// one submission, then polling until a terminal state or the configured
// timeout. Failed and canceled jobs are terminal and never retried here.
type VideoJobRunnerPort interface {
	Submit(ctx context.Context, params SubmitJobParams) (*domain.VideoJobHandle, error)
	AwaitCompletion(ctx context.Context, handle *domain.VideoJobHandle) (string, error)
}
