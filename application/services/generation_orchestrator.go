package services

import (
	"context"
	"time"

	"github.com/larrybrager-personal/talking-pet-backend/application/ports/inbound"
	"github.com/larrybrager-personal/talking-pet-backend/application/ports/outbound"
	"github.com/larrybrager-personal/talking-pet-backend/domain"
	"github.com/panjf2000/ants/v2"
)

// rollbackTimeout bounds compensating deletes, which run detached from the
// (possibly already canceled) request context.
const rollbackTimeout = 30 * time.Second

type generationOrchestrator struct {
	logger        outbound.LoggerPort
	workerPool    *ants.Pool
	registry      *domain.ModelCapabilityRegistry
	synthesizer   outbound.SpeechSynthesizerPort
	videoJobs     outbound.VideoJobRunnerPort
	artifactStore outbound.ArtifactStorePort
	muxer         outbound.MuxerPort
	recorder      outbound.MetadataRecorderPort
	fetcher       outbound.BinaryFetcherPort
}

func NewGenerationOrchestrator(
	logger outbound.LoggerPort,
	workerPool *ants.Pool,
	registry *domain.ModelCapabilityRegistry,
	synthesizer outbound.SpeechSynthesizerPort,
	videoJobs outbound.VideoJobRunnerPort,
	artifactStore outbound.ArtifactStorePort,
	muxer outbound.MuxerPort,
	recorder outbound.MetadataRecorderPort,
	fetcher outbound.BinaryFetcherPort,
) inbound.GenerationOrchestratorPort {
	return &generationOrchestrator{
		logger:        logger,
		workerPool:    workerPool,
		registry:      registry,
		synthesizer:   synthesizer,
		videoJobs:     videoJobs,
		artifactStore: artifactStore,
		muxer:         muxer,
		recorder:      recorder,
		fetcher:       fetcher,
	}
}

// RunVideoOnly generates a clip from the image and prompt alone. The clip
// stays hosted by the provider, so a late failure leaves nothing to clean
// up beyond the record that was never written.
func (o *generationOrchestrator) RunVideoOnly(ctx context.Context, request domain.GenerationRequest) (*domain.GenerationResult, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	request = o.applyDefaults(request)

	if err := o.registry.Validate(request.ModelID, false, request.Resolution); err != nil {
		return nil, err
	}

	videoURL, err := o.generateVideo(ctx, request, "")
	if err != nil {
		return nil, err
	}

	result := domain.GenerationResult{
		VideoURL: videoURL,
		FinalURL: videoURL,
	}

	if err := o.record(ctx, request, result, ""); err != nil {
		return nil, err
	}

	return &result, nil
}

// RunSpeechAndVideo synthesizes the script, publishes it, generates the
// clip, and muxes the two unless the model's output already embeds audio.
// Every artifact uploaded here is torn down again if a later step fails.
func (o *generationOrchestrator) RunSpeechAndVideo(ctx context.Context, request domain.GenerationRequest) (*domain.GenerationResult, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	if !request.WantsSpeech() {
		return nil, domain.NewValidationError("speech_text and voice_id are required for the speech workflow")
	}
	request = o.applyDefaults(request)

	if err := o.registry.Validate(request.ModelID, true, request.Resolution); err != nil {
		return nil, err
	}
	capability, _ := o.registry.Lookup(request.ModelID)

	prefix, err := domain.StoragePrefixFor(request.User)
	if err != nil {
		return nil, err
	}

	// Speech runs first so its artifact is durable before the far slower
	// video job is even submitted.
	speech, err := o.synthesizer.Synthesize(ctx, outbound.SynthesizeParams{
		Text:    request.SpeechText,
		VoiceID: request.VoiceID,
	})
	if err != nil {
		return nil, err
	}

	var uploaded []domain.StoredArtifact

	audioKey := domain.BuildStorageKey(prefix, "audio", "mp3")
	audioArtifact, err := o.artifactStore.Upload(ctx, speech.Bytes, audioKey, speech.ContentType)
	if err != nil {
		return nil, err
	}
	uploaded = append(uploaded, *audioArtifact)

	audioInputURL := ""
	if capability.RequiresAudioInput {
		audioInputURL = audioArtifact.PublicURL
	}

	videoURL, err := o.generateVideo(ctx, request, audioInputURL)
	if err != nil {
		o.rollback(uploaded)
		return nil, err
	}

	result := domain.GenerationResult{
		AudioURL: audioArtifact.PublicURL,
		VideoURL: videoURL,
		FinalURL: videoURL,
	}
	storageKey := audioArtifact.StoragePath

	if !capability.EmbedsOutputAudio() {
		finalArtifact, err := o.muxAndPublish(ctx, prefix, videoURL, audioArtifact.PublicURL)
		if err != nil {
			o.rollback(uploaded)
			return nil, err
		}
		uploaded = append(uploaded, *finalArtifact)
		result.FinalURL = finalArtifact.PublicURL
		storageKey = finalArtifact.StoragePath
	}

	if err := o.record(ctx, request, result, storageKey); err != nil {
		o.rollback(uploaded)
		return nil, err
	}

	return &result, nil
}

func (o *generationOrchestrator) applyDefaults(request domain.GenerationRequest) domain.GenerationRequest {
	if request.ModelID == "" {
		request.ModelID = o.registry.DefaultModelID()
	}
	capability, ok := o.registry.Lookup(request.ModelID)
	if !ok {
		return request
	}
	if request.Seconds == 0 {
		request.Seconds = capability.DefaultSeconds
	}
	if request.Resolution == "" && len(capability.SupportedResolutions) > 0 {
		request.Resolution = capability.SupportedResolutions[0]
	}
	return request
}

func (o *generationOrchestrator) generateVideo(ctx context.Context, request domain.GenerationRequest, audioURL string) (string, error) {
	handle, err := o.videoJobs.Submit(ctx, outbound.SubmitJobParams{
		ModelID:    request.ModelID,
		ImageURL:   request.ImageURL,
		Prompt:     request.Prompt,
		Seconds:    request.Seconds,
		Resolution: request.Resolution,
		AudioURL:   audioURL,
	})
	if err != nil {
		return "", err
	}

	o.logger.InfoWithFields("video job submitted", map[string]interface{}{
		"model":  request.ModelID,
		"job_id": handle.ProviderJobID,
	})

	return o.videoJobs.AwaitCompletion(ctx, handle)
}

func (o *generationOrchestrator) muxAndPublish(ctx context.Context, prefix, videoURL, audioURL string) (*domain.StoredArtifact, error) {
	videoBytes, err := o.fetcher.FetchBinary(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	audioBytes, err := o.fetcher.FetchBinary(ctx, audioURL)
	if err != nil {
		return nil, err
	}

	muxed, err := o.muxer.Mux(ctx, videoBytes, audioBytes)
	if err != nil {
		return nil, err
	}

	finalKey := domain.BuildStorageKey(prefix, "videos", "mp4")
	return o.artifactStore.Upload(ctx, muxed, finalKey, "video/mp4")
}

func (o *generationOrchestrator) record(ctx context.Context, request domain.GenerationRequest, result domain.GenerationResult, storageKey string) error {
	userID := ""
	if request.User != nil {
		userID = request.User.ID
	}
	return o.recorder.Record(ctx, outbound.RecordParams{
		Result:     result,
		ModelID:    request.ModelID,
		StorageKey: storageKey,
		ImageURL:   request.ImageURL,
		Script:     request.SpeechText,
		Prompt:     request.Prompt,
		VoiceID:    request.VoiceID,
		Resolution: request.Resolution,
		Duration:   request.Seconds,
		UserID:     userID,
	})
}

// rollback deletes this request's uploads in reverse order. It runs through
// the shared worker pool and is waited on, so every delete is attempted
// exactly once before the causal error is surfaced. Delete failures are
// logged and never replace that error.
func (o *generationOrchestrator) rollback(artifacts []domain.StoredArtifact) {
	if len(artifacts) == 0 {
		return
	}

	done := make(chan struct{})
	cleanup := func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
		defer cancel()
		for i := len(artifacts) - 1; i >= 0; i-- {
			artifact := artifacts[i]
			if err := o.artifactStore.Delete(ctx, artifact.StoragePath); err != nil {
				o.logger.ErrorWithFields(err, "failed to delete artifact during rollback", map[string]interface{}{
					"storage_path": artifact.StoragePath,
				})
				continue
			}
			o.logger.InfoWithFields("rolled back artifact", map[string]interface{}{
				"storage_path": artifact.StoragePath,
			})
		}
	}

	if err := o.workerPool.Submit(cleanup); err != nil {
		o.logger.Error(err, "worker pool rejected rollback, running inline")
		cleanup()
		return
	}
	<-done
}
