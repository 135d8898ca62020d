package config

import (
	"fmt"
	"os"
	"strconv"
)

type ElevenLabsConfig struct {
	ApiUrl       string
	ApiKey       string
	ModelId      string
	OutputFormat string
	MaxChars     int
}

func GetElevenLabsConfig() (*ElevenLabsConfig, error) {
	apiUrl := os.Getenv("ELEVEN_LABS_API_URL")
	if apiUrl == "" {
		apiUrl = "https://api.elevenlabs.io/v1/text-to-speech"
	}
	apiKey := os.Getenv("ELEVEN_LABS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ELEVEN_LABS_API_KEY must be set")
	}
	modelId := os.Getenv("ELEVEN_LABS_MODEL_ID")
	if modelId == "" {
		modelId = "eleven_multilingual_v2"
	}
	// Kept small so the synthesized track stays under the providers' size cap.
	outputFormat := os.Getenv("TTS_OUTPUT_FORMAT")
	if outputFormat == "" {
		outputFormat = "mp3_44100_64"
	}

	maxChars := 600
	if raw := os.Getenv("TTS_MAX_CHARS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TTS_MAX_CHARS: %w", err)
		}
		maxChars = parsed
	}

	return &ElevenLabsConfig{
		ApiUrl:       apiUrl,
		ApiKey:       apiKey,
		ModelId:      modelId,
		OutputFormat: outputFormat,
		MaxChars:     maxChars,
	}, nil
}
