package adapters

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/larrybrager-personal/talking-pet-backend/application/ports/outbound"
	"github.com/larrybrager-personal/talking-pet-backend/config"
	"github.com/larrybrager-personal/talking-pet-backend/domain"
	"github.com/rs/zerolog/log"
)

type s3ArtifactStore struct {
	s3Svc    *s3.S3
	s3Config *config.S3Config
}

func NewS3ArtifactStore(s3Svc *s3.S3, s3Config *config.S3Config) outbound.ArtifactStorePort {
	return &s3ArtifactStore{
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3ArtifactStore) Upload(ctx context.Context, payload []byte, storagePath string, contentType string) (*domain.StoredArtifact, error) {
	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(storagePath),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String(contentType),
	}

	_, err := s.s3Svc.PutObjectWithContext(ctx, putInput)
	if err != nil {
		log.Error().
			Err(err).
			Str("bucket", s.s3Config.BucketName).
			Str("storage_path", storagePath).
			Msg("Failed to upload artifact to S3")
		return nil, domain.NewPipelineError(domain.StorageUnavailable, "upload of "+storagePath+" failed", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Config.BucketName, s.s3Config.Region, storagePath)
	log.Debug().
		Str("public_url", publicURL).
		Msg("Successfully uploaded artifact to S3")

	return &domain.StoredArtifact{
		PublicURL:   publicURL,
		StoragePath: storagePath,
		ContentType: contentType,
	}, nil
}

func (s *s3ArtifactStore) Delete(ctx context.Context, storagePath string) error {
	deleteInput := &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(storagePath),
	}

	_, err := s.s3Svc.DeleteObjectWithContext(ctx, deleteInput)
	if err != nil {
		log.Error().
			Err(err).
			Str("bucket", s.s3Config.BucketName).
			Str("storage_path", storagePath).
			Msg("Failed to delete artifact from S3")
		return domain.NewPipelineError(domain.StorageUnavailable, "delete of "+storagePath+" failed", err)
	}

	return nil
}
