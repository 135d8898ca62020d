package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/larrybrager-personal/talking-pet-backend/application/ports/outbound"
	"github.com/larrybrager-personal/talking-pet-backend/config"
	"github.com/larrybrager-personal/talking-pet-backend/domain"
	"github.com/rs/zerolog/log"
)

type postgresMetadataRecorder struct {
	pool           *pgxpool.Pool
	postgresConfig *config.PostgresConfig
}

func NewPostgresMetadataRecorder(pool *pgxpool.Pool, postgresConfig *config.PostgresConfig) outbound.MetadataRecorderPort {
	return &postgresMetadataRecorder{
		pool:           pool,
		postgresConfig: postgresConfig,
	}
}

// Record inserts the row that marks the workflow complete. A failure here
// means the caller must treat the whole request as failed.
func (r *postgresMetadataRecorder) Record(ctx context.Context, params outbound.RecordParams) error {
	query := fmt.Sprintf(`INSERT INTO %s
		(user_id, audio_url, video_url, final_url, storage_key, image_url, script, prompt, voice_id, model, resolution, duration, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`, r.postgresConfig.Table)

	var userID interface{} = params.UserID
	if params.UserID == "" {
		userID = nil
	}

	_, err := r.pool.Exec(ctx, query,
		userID,
		params.Result.AudioURL,
		params.Result.VideoURL,
		params.Result.FinalURL,
		params.StorageKey,
		params.ImageURL,
		params.Script,
		params.Prompt,
		params.VoiceID,
		params.ModelID,
		params.Resolution,
		params.Duration,
		time.Now().UTC(),
	)
	if err != nil {
		log.Error().
			Err(err).
			Str("table", r.postgresConfig.Table).
			Str("model", params.ModelID).
			Msg("Failed to insert generation record")
		return domain.NewPipelineError(domain.PersistenceFailed, "insert into "+r.postgresConfig.Table+" failed", err)
	}

	return nil
}
