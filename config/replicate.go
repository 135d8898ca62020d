package config

import (
	"fmt"
	"os"
	"time"
)

type ReplicateConfig struct {
	ApiUrl       string
	ApiToken     string
	PollInterval time.Duration
	JobTimeout   time.Duration
}

func GetReplicateConfig() (*ReplicateConfig, error) {
	apiUrl := os.Getenv("REPLICATE_API_URL")
	if apiUrl == "" {
		apiUrl = "https://api.replicate.com/v1"
	}
	apiToken := os.Getenv("REPLICATE_API_TOKEN")
	if apiToken == "" {
		return nil, fmt.Errorf("REPLICATE_API_TOKEN must be set")
	}

	pollInterval := 2 * time.Second
	if raw := os.Getenv("VIDEO_POLL_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse VIDEO_POLL_INTERVAL: %w", err)
		}
		pollInterval = parsed
	}

	jobTimeout := 10 * time.Minute
	if raw := os.Getenv("VIDEO_JOB_TIMEOUT"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse VIDEO_JOB_TIMEOUT: %w", err)
		}
		jobTimeout = parsed
	}

	return &ReplicateConfig{
		ApiUrl:       apiUrl,
		ApiToken:     apiToken,
		PollInterval: pollInterval,
		JobTimeout:   jobTimeout,
	}, nil
}
