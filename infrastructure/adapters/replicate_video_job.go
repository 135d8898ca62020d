package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/larrybrager-personal/talking-pet-backend/application/ports/outbound"
	"github.com/larrybrager-personal/talking-pet-backend/config"
	"github.com/larrybrager-personal/talking-pet-backend/domain"
	"github.com/rs/zerolog/log"
)

type replicatePrediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`
	Logs   string          `json:"logs"`
}

type replicateVideoJobRunner struct {
	client          *http.Client
	replicateConfig *config.ReplicateConfig
	registry        *domain.ModelCapabilityRegistry
}

func NewReplicateVideoJobRunner(client *http.Client, replicateConfig *config.ReplicateConfig, registry *domain.ModelCapabilityRegistry) outbound.VideoJobRunnerPort {
	if client == nil {
		client = http.DefaultClient
	}
	return &replicateVideoJobRunner{
		client:          client,
		replicateConfig: replicateConfig,
		registry:        registry,
	}
}

// Submit creates the prediction. Failures here never enter the polling
// loop: bad auth or a malformed payload short-circuits immediately.
func (r *replicateVideoJobRunner) Submit(ctx context.Context, params outbound.SubmitJobParams) (*domain.VideoJobHandle, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"input": r.buildModelInput(params),
	})
	if err != nil {
		return nil, domain.NewProviderError(domain.ProviderUnavailable, "replicate", "failed to marshal submission", err)
	}

	url := fmt.Sprintf("%s/models/%s/predictions", r.replicateConfig.ApiUrl, params.ModelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, domain.NewProviderError(domain.ProviderUnavailable, "replicate", "failed to build submission", err)
	}
	req.Header.Add("Authorization", "Bearer "+r.replicateConfig.ApiToken)
	req.Header.Add("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("model", params.ModelID).Msg("Video job submission failed")
		return nil, domain.NewProviderError(domain.ProviderUnavailable, "replicate", "submission failed", err)
	}
	defer closeBody(res.Body, url)

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, domain.NewProviderError(domain.ProviderUnavailable, "replicate", "failed to read submission response", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		log.Error().Int("status", res.StatusCode).Str("model", params.ModelID).Str("body", string(body)).Msg("Video provider rejected the submission")
		return nil, domain.NewProviderError(domain.ProviderRejected, "replicate", string(body), nil)
	}

	var prediction replicatePrediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return nil, domain.NewProviderError(domain.ProviderUnavailable, "replicate", "failed to decode submission response", err)
	}
	if prediction.ID == "" {
		return nil, domain.NewProviderError(domain.ProviderRejected, "replicate", "no prediction id returned", nil)
	}

	handle := &domain.VideoJobHandle{
		ProviderJobID: prediction.ID,
		Status:        mapPredictionStatus(prediction.Status),
	}
	return handle, nil
}

// AwaitCompletion polls the prediction on a fixed interval until it reaches
// a terminal status or the overall timeout elapses. A timeout returns
// JobTimedOut without any further provider contact; failed and canceled are
// terminal and never retried.
func (r *replicateVideoJobRunner) AwaitCompletion(ctx context.Context, handle *domain.VideoJobHandle) (string, error) {
	pollCtx, cancel := context.WithTimeout(ctx, r.replicateConfig.JobTimeout)
	defer cancel()

	ticker := time.NewTicker(r.replicateConfig.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-pollCtx.Done():
			return "", r.awaitInterrupted(ctx, handle)
		case <-ticker.C:
			if err := r.poll(pollCtx, handle); err != nil {
				// A deadline firing mid-request surfaces as a transport
				// error from poll; classify it like any other expiry.
				if pollCtx.Err() != nil {
					return "", r.awaitInterrupted(ctx, handle)
				}
				return "", err
			}
			switch handle.Status {
			case domain.JobStatusSucceeded:
				if handle.OutputURL == "" {
					return "", domain.NewProviderError(domain.ProviderRejected, "replicate", "prediction succeeded without an output url", nil)
				}
				return handle.OutputURL, nil
			case domain.JobStatusFailed, domain.JobStatusCanceled:
				return "", domain.NewProviderError(domain.JobFailed, "replicate", handle.ErrorDetail, nil)
			}
		}
	}
}

// awaitInterrupted tells the overall job deadline apart from the caller
// abandoning the request. Only the former is the provider's timeout; a
// canceled caller propagates its context error untranslated.
func (r *replicateVideoJobRunner) awaitInterrupted(ctx context.Context, handle *domain.VideoJobHandle) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("awaiting job %s: %w", handle.ProviderJobID, err)
	}
	return domain.NewProviderError(domain.JobTimedOut, "replicate",
		fmt.Sprintf("job %s did not reach a terminal state within %s", handle.ProviderJobID, r.replicateConfig.JobTimeout), nil)
}

func (r *replicateVideoJobRunner) poll(ctx context.Context, handle *domain.VideoJobHandle) error {
	url := fmt.Sprintf("%s/predictions/%s", r.replicateConfig.ApiUrl, handle.ProviderJobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.NewProviderError(domain.ProviderUnavailable, "replicate", "failed to build poll request", err)
	}
	req.Header.Add("Authorization", "Bearer "+r.replicateConfig.ApiToken)

	res, err := r.client.Do(req)
	if err != nil {
		return domain.NewProviderError(domain.ProviderUnavailable, "replicate", "poll failed", err)
	}
	defer closeBody(res.Body, url)

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.NewProviderError(domain.ProviderUnavailable, "replicate", "failed to read poll response", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return domain.NewProviderError(domain.ProviderRejected, "replicate", string(body), nil)
	}

	var prediction replicatePrediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return domain.NewProviderError(domain.ProviderUnavailable, "replicate", "failed to decode poll response", err)
	}

	handle.Status = mapPredictionStatus(prediction.Status)
	switch handle.Status {
	case domain.JobStatusSucceeded:
		handle.OutputURL = firstOutputURL(prediction.Output)
	case domain.JobStatusFailed, domain.JobStatusCanceled:
		handle.ErrorDetail = predictionErrorDetail(prediction)
	}
	return nil
}

// buildModelInput shapes the submission payload per model family.
func (r *replicateVideoJobRunner) buildModelInput(params outbound.SubmitJobParams) map[string]interface{} {
	switch {
	case params.AudioURL != "":
		return map[string]interface{}{
			"image": params.ImageURL,
			"audio": params.AudioURL,
		}
	case strings.HasPrefix(params.ModelID, "kwaivgi/kling"):
		mode := "standard"
		aspectRatio := "1:1"
		if r.registry.ProMode(params.ModelID, params.Resolution) {
			mode = "pro"
			aspectRatio = "16:9"
		}
		if capability, ok := r.registry.Lookup(params.ModelID); ok {
			if mode == "pro" && capability.AspectRatioPro != "" {
				aspectRatio = capability.AspectRatioPro
			}
			if mode == "standard" && capability.AspectRatioStandard != "" {
				aspectRatio = capability.AspectRatioStandard
			}
		}
		return map[string]interface{}{
			"prompt":       params.Prompt,
			"start_image":  params.ImageURL,
			"duration":     params.Seconds,
			"mode":         mode,
			"aspect_ratio": aspectRatio,
		}
	case strings.HasPrefix(params.ModelID, "bytedance/seedance"):
		return map[string]interface{}{
			"prompt":     params.Prompt,
			"image":      params.ImageURL,
			"duration":   params.Seconds,
			"resolution": params.Resolution,
		}
	default:
		return map[string]interface{}{
			"prompt":            params.Prompt,
			"first_frame_image": params.ImageURL,
			"duration":          params.Seconds,
			"resolution":        params.Resolution,
		}
	}
}

func mapPredictionStatus(status string) domain.JobStatus {
	switch status {
	case "starting", "queued":
		return domain.JobStatusQueued
	case "processing":
		return domain.JobStatusProcessing
	case "succeeded":
		return domain.JobStatusSucceeded
	case "failed":
		return domain.JobStatusFailed
	case "canceled":
		return domain.JobStatusCanceled
	default:
		return domain.JobStatusProcessing
	}
}

// firstOutputURL handles the provider returning either a single url or a
// list of urls; the first entry is canonical.
func firstOutputURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0]
	}
	return ""
}

func predictionErrorDetail(prediction replicatePrediction) string {
	detail := strings.Trim(string(prediction.Error), `"`)
	if detail == "" || detail == "null" {
		detail = prediction.Logs
	}
	if detail == "" {
		detail = "job " + string(mapPredictionStatus(prediction.Status))
	}
	return detail
}
