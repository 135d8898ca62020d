package outbound

import (
	"context"

	"github.com/larrybrager-personal/talking-pet-backend/domain"
)

type RecordParams struct {
	Result     domain.GenerationResult
	ModelID    string
	StorageKey string
	ImageURL   string
	Script     string
	Prompt     string
	VoiceID    string
	Resolution string
	Duration   int
	UserID     string
}

// MetadataRecorderPort writes the durable row that makes a finished
// workflow visible. This is the commit point: no row, no result.
type MetadataRecorderPort interface {
	Record(ctx context.Context, params RecordParams) error
}
