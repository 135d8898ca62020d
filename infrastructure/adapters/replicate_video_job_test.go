package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/larrybrager-personal/talking-pet-backend/application/ports/outbound"
	"github.com/larrybrager-personal/talking-pet-backend/config"
	"github.com/larrybrager-personal/talking-pet-backend/domain"
)

func replicateConfigFor(apiUrl string) *config.ReplicateConfig {
	return &config.ReplicateConfig{
		ApiUrl:       apiUrl,
		ApiToken:     "test-token",
		PollInterval: 5 * time.Millisecond,
		JobTimeout:   time.Second,
	}
}

func newJobRegistry(t *testing.T) *domain.ModelCapabilityRegistry {
	t.Helper()
	registry, err := domain.NewModelCapabilityRegistry(domain.DefaultModels())
	if err != nil {
		t.Fatal("Failed to build registry:", err)
	}
	return registry
}

func submitParams() outbound.SubmitJobParams {
	return outbound.SubmitJobParams{
		ModelID:    "minimax/hailuo-02",
		ImageURL:   "https://example.com/pet.jpg",
		Prompt:     "wave hello",
		Seconds:    6,
		Resolution: "768p",
	}
}

func TestSubmitAndAwait_SucceedsWithListOutput(t *testing.T) {
	var polls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			if r.Header.Get("Authorization") != "Bearer test-token" {
				t.Error("Missing bearer token")
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "job-1", "status": "starting"})
		case strings.HasSuffix(r.URL.Path, "/predictions/job-1"):
			n := atomic.AddInt32(&polls, 1)
			if n < 3 {
				json.NewEncoder(w).Encode(map[string]interface{}{"id": "job-1", "status": "processing"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":     "job-1",
				"status": "succeeded",
				"output": []string{"https://provider.test/clip.mp4", "https://provider.test/preview.mp4"},
			})
		default:
			t.Error("Unexpected request:", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	runner := NewReplicateVideoJobRunner(server.Client(), replicateConfigFor(server.URL), newJobRegistry(t))

	handle, err := runner.Submit(context.Background(), submitParams())
	if err != nil {
		t.Fatal("Failed to submit:", err)
	}
	if handle.Status != domain.JobStatusQueued {
		t.Fatal("Expected a freshly submitted job to be queued, got:", handle.Status)
	}

	videoURL, err := runner.AwaitCompletion(context.Background(), handle)
	if err != nil {
		t.Fatal("Failed to await completion:", err)
	}
	if videoURL != "https://provider.test/clip.mp4" {
		t.Fatal("Expected the first output url, got:", videoURL)
	}
	if handle.Status != domain.JobStatusSucceeded {
		t.Fatal("Handle not terminal:", handle.Status)
	}
}

func TestAwait_FailedJobCarriesProviderDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "job-2", "status": "starting"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "job-2",
			"status": "failed",
			"error":  "NSFW content detected",
			"logs":   "frame 12: classifier triggered",
		})
	}))
	defer server.Close()

	runner := NewReplicateVideoJobRunner(server.Client(), replicateConfigFor(server.URL), newJobRegistry(t))

	handle, err := runner.Submit(context.Background(), submitParams())
	if err != nil {
		t.Fatal("Failed to submit:", err)
	}

	_, err = runner.AwaitCompletion(context.Background(), handle)
	if domain.KindOf(err) != domain.JobFailed {
		t.Fatal("Expected JobFailed, got:", err)
	}
	if !strings.Contains(domain.DetailOf(err), "NSFW content detected") {
		t.Fatal("Expected the provider error verbatim, got:", domain.DetailOf(err))
	}
}

func TestAwait_TimesOutWithoutTerminalState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "job-3", "status": "starting"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "job-3", "status": "processing"})
	}))
	defer server.Close()

	replicateConfig := replicateConfigFor(server.URL)
	replicateConfig.JobTimeout = 50 * time.Millisecond

	runner := NewReplicateVideoJobRunner(server.Client(), replicateConfig, newJobRegistry(t))

	handle, err := runner.Submit(context.Background(), submitParams())
	if err != nil {
		t.Fatal("Failed to submit:", err)
	}

	_, err = runner.AwaitCompletion(context.Background(), handle)
	if domain.KindOf(err) != domain.JobTimedOut {
		t.Fatal("Expected JobTimedOut, got:", err)
	}
	if handle.Status.IsTerminal() {
		t.Fatal("Timed-out handle must not be marked terminal:", handle.Status)
	}
}

func TestAwait_DeadlineMidPollIsStillTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "job-4", "status": "starting"})
			return
		}
		// Hold the poll open until the job deadline has long passed.
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "job-4", "status": "processing"})
	}))
	defer server.Close()

	replicateConfig := replicateConfigFor(server.URL)
	replicateConfig.JobTimeout = 50 * time.Millisecond

	runner := NewReplicateVideoJobRunner(server.Client(), replicateConfig, newJobRegistry(t))

	handle, err := runner.Submit(context.Background(), submitParams())
	if err != nil {
		t.Fatal("Failed to submit:", err)
	}

	_, err = runner.AwaitCompletion(context.Background(), handle)
	if domain.KindOf(err) != domain.JobTimedOut {
		t.Fatal("Expected JobTimedOut when the deadline fires mid-poll, got:", err)
	}
}

func TestAwait_CallerCancellationIsNotATimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "job-5", "status": "starting"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "job-5", "status": "processing"})
	}))
	defer server.Close()

	runner := NewReplicateVideoJobRunner(server.Client(), replicateConfigFor(server.URL), newJobRegistry(t))

	handle, err := runner.Submit(context.Background(), submitParams())
	if err != nil {
		t.Fatal("Failed to submit:", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = runner.AwaitCompletion(ctx, handle)
	if !errors.Is(err, context.Canceled) {
		t.Fatal("Expected the caller's cancellation to propagate, got:", err)
	}
	if domain.KindOf(err) == domain.JobTimedOut {
		t.Fatal("Caller cancellation must not be reported as a job timeout")
	}
}

func TestSubmit_RejectionShortCircuits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"authentication credentials were not provided"}`))
	}))
	defer server.Close()

	runner := NewReplicateVideoJobRunner(server.Client(), replicateConfigFor(server.URL), newJobRegistry(t))

	_, err := runner.Submit(context.Background(), submitParams())
	if domain.KindOf(err) != domain.ProviderRejected {
		t.Fatal("Expected ProviderRejected, got:", err)
	}
	if !strings.Contains(domain.DetailOf(err), "authentication credentials") {
		t.Fatal("Expected the provider body verbatim, got:", domain.DetailOf(err))
	}
}

func TestBuildModelInput_KlingProMode(t *testing.T) {
	runner := &replicateVideoJobRunner{registry: newJobRegistry(t)}

	params := submitParams()
	params.ModelID = "kwaivgi/kling-v2.1"
	params.Resolution = "1080p"
	input := runner.buildModelInput(params)
	if input["mode"] != "pro" || input["aspect_ratio"] != "16:9" {
		t.Fatal("Expected pro mode with 16:9 at 1080p, got:", input)
	}

	params.Resolution = "768p"
	input = runner.buildModelInput(params)
	if input["mode"] != "standard" || input["aspect_ratio"] != "1:1" {
		t.Fatal("Expected standard mode with 1:1 below 1080p, got:", input)
	}
}

func TestBuildModelInput_AudioDrivenModel(t *testing.T) {
	runner := &replicateVideoJobRunner{registry: newJobRegistry(t)}

	params := submitParams()
	params.ModelID = "sonic/talking-head"
	params.AudioURL = "https://cdn.test/audio/track.mp3"
	input := runner.buildModelInput(params)
	if input["audio"] != params.AudioURL {
		t.Fatal("Expected the audio url in the submission, got:", input)
	}
	if input["image"] != params.ImageURL {
		t.Fatal("Expected the image url in the submission, got:", input)
	}
}
