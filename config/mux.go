package config

import (
	"fmt"
	"os"
	"strconv"
)

type MuxConfig struct {
	// AudioLeadDelayMs shifts speech onset later to compensate for the
	// generation providers starting mouth movement ahead of the audio.
	AudioLeadDelayMs int
	AudioTailPadMs   int
}

func GetMuxConfig() (*MuxConfig, error) {
	leadDelay := 560
	if raw := os.Getenv("MUX_AUDIO_LEAD_DELAY_MS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse MUX_AUDIO_LEAD_DELAY_MS: %w", err)
		}
		leadDelay = parsed
	}

	tailPad := 300
	if raw := os.Getenv("MUX_AUDIO_TAIL_PAD_MS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse MUX_AUDIO_TAIL_PAD_MS: %w", err)
		}
		tailPad = parsed
	}

	return &MuxConfig{
		AudioLeadDelayMs: leadDelay,
		AudioTailPadMs:   tailPad,
	}, nil
}
