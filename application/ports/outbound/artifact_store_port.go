package outbound

import (
	"context"

	"github.com/larrybrager-personal/talking-pet-backend/domain"
)

// ArtifactStorePort publishes request artifacts to object storage.
// Upload targets are unique per attempt; Delete exists for compensating
// rollback and is best-effort.
type ArtifactStorePort interface {
	Upload(ctx context.Context, payload []byte, storagePath string, contentType string) (*domain.StoredArtifact, error)
	Delete(ctx context.Context, storagePath string) error
}
