package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/larrybrager-personal/talking-pet-backend/application/ports/outbound"
	"github.com/larrybrager-personal/talking-pet-backend/config"
	"github.com/larrybrager-personal/talking-pet-backend/domain"
	"github.com/rs/zerolog/log"
)

type ElevenLabsRequest struct {
	Text         string `json:"text"`
	ModelId      string `json:"model_id"`
	OutputFormat string `json:"output_format"`
}

type elevenLabsSynthesizer struct {
	client           *http.Client
	elevenLabsConfig *config.ElevenLabsConfig
}

func NewElevenLabsSynthesizer(client *http.Client, elevenLabsConfig *config.ElevenLabsConfig) outbound.SpeechSynthesizerPort {
	if client == nil {
		client = http.DefaultClient
	}
	return &elevenLabsSynthesizer{
		client:           client,
		elevenLabsConfig: elevenLabsConfig,
	}
}

func (s *elevenLabsSynthesizer) Synthesize(ctx context.Context, params outbound.SynthesizeParams) (*domain.SpeechArtifact, error) {
	// Length is checked locally so over-long scripts never cost a provider
	// call. The limit is in characters, not bytes: multilingual scripts are
	// routinely non-ASCII.
	if chars := utf8.RuneCountInString(params.Text); chars > s.elevenLabsConfig.MaxChars {
		return nil, domain.NewValidationError(fmt.Sprintf("text too long: %d chars (max %d)", chars, s.elevenLabsConfig.MaxChars))
	}

	req, err := s.getRequest(ctx, params.Text, params.VoiceID)
	if err != nil {
		log.Error().Err(err).Str("action", "Synthesizing speech").Msg("Failed to construct the TTS request")
		return nil, domain.NewProviderError(domain.ProviderUnavailable, "elevenlabs", "failed to build request", err)
	}

	res, err := s.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("voice_id", params.VoiceID).Msg("TTS request failed")
		return nil, domain.NewProviderError(domain.ProviderUnavailable, "elevenlabs", "request failed", err)
	}
	defer closeBody(res.Body, req.URL.String())

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		log.Error().Int("status", res.StatusCode).Str("voice_id", params.VoiceID).Str("body", string(body)).Msg("TTS provider rejected the request")
		return nil, domain.NewProviderError(domain.ProviderRejected, "elevenlabs", string(body), nil)
	}

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, domain.NewProviderError(domain.ProviderUnavailable, "elevenlabs", "failed to read audio body", err)
	}

	if len(audio) > domain.MaxAudioBytes {
		return nil, domain.NewValidationError(fmt.Sprintf("generated audio is too large: %d bytes (max %d); shorten the script or reduce bitrate", len(audio), domain.MaxAudioBytes))
	}

	return &domain.SpeechArtifact{
		Bytes:       audio,
		ContentType: "audio/mpeg",
	}, nil
}

func (s *elevenLabsSynthesizer) getRequest(ctx context.Context, text string, voiceID string) (*http.Request, error) {
	reqBody := ElevenLabsRequest{
		Text:         text,
		ModelId:      s.elevenLabsConfig.ModelId,
		OutputFormat: s.elevenLabsConfig.OutputFormat,
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.elevenLabsConfig.ApiUrl+"/"+voiceID, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, err
	}

	req.Header.Add("Accept", "audio/mpeg")
	req.Header.Add("xi-api-key", s.elevenLabsConfig.ApiKey)
	req.Header.Add("Content-Type", "application/json")

	return req, nil
}
