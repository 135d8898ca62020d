package config

import (
	"fmt"
	"os"
)

type PostgresConfig struct {
	DatabaseUrl string
	Table       string
}

func GetPostgresConfig() (*PostgresConfig, error) {
	databaseUrl := os.Getenv("DATABASE_URL")
	if databaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	table := os.Getenv("PET_VIDEOS_TABLE")
	if table == "" {
		table = "pet_videos"
	}

	return &PostgresConfig{
		DatabaseUrl: databaseUrl,
		Table:       table,
	}, nil
}
