package adapters

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/larrybrager-personal/talking-pet-backend/application/ports/outbound"
	"github.com/larrybrager-personal/talking-pet-backend/config"
	"github.com/larrybrager-personal/talking-pet-backend/domain"
)

type ffmpegMuxer struct {
	logger    outbound.LoggerPort
	muxConfig *config.MuxConfig
}

func NewFFMPEGMuxer(logger outbound.LoggerPort, muxConfig *config.MuxConfig) outbound.MuxerPort {
	return &ffmpegMuxer{
		logger:    logger,
		muxConfig: muxConfig,
	}
}

// Mux combines the generated clip and the speech track. The video stream is
// copied untouched; the audio is re-encoded to AAC with a lead delay and
// tail padding to compensate for the provider's lip-sync skew, and the
// output is clamped to the shorter stream.
func (m *ffmpegMuxer) Mux(ctx context.Context, videoBytes []byte, audioBytes []byte) ([]byte, error) {
	workDir := os.TempDir()
	id := uuid.NewString()
	videoFile := filepath.Join(workDir, id+"-video.mp4")
	audioFile := filepath.Join(workDir, id+"-audio.mp3")
	outputFile := filepath.Join(workDir, id+"-final.mp4")

	defer func() {
		for _, name := range []string{videoFile, audioFile, outputFile} {
			if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
				m.logger.ErrorWithFields(err, "error removing mux temp file", map[string]interface{}{
					"file": name,
				})
			}
		}
	}()

	if err := os.WriteFile(videoFile, videoBytes, 0o600); err != nil {
		return nil, domain.NewPipelineError(domain.MuxFailed, "failed to stage video input", err)
	}
	if err := os.WriteFile(audioFile, audioBytes, 0o600); err != nil {
		return nil, domain.NewPipelineError(domain.MuxFailed, "failed to stage audio input", err)
	}

	audioFilter := fmt.Sprintf("adelay=%d|%d", m.muxConfig.AudioLeadDelayMs, m.muxConfig.AudioLeadDelayMs)
	if m.muxConfig.AudioTailPadMs > 0 {
		audioFilter += fmt.Sprintf(",apad=pad_dur=%dms", m.muxConfig.AudioTailPadMs)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", videoFile,
		"-i", audioFile,
		"-c:v", "copy",
		"-c:a", "aac", "-b:a", "192k",
		"-af", audioFilter,
		"-shortest",
		outputFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		m.logger.ErrorWithFields(err, "ffmpeg mux failed", map[string]interface{}{
			"output": string(out),
		})
		return nil, domain.NewPipelineError(domain.MuxFailed, string(out), err)
	}

	muxed, err := os.ReadFile(outputFile)
	if err != nil {
		return nil, domain.NewPipelineError(domain.MuxFailed, "failed to read mux output", err)
	}
	return muxed, nil
}
