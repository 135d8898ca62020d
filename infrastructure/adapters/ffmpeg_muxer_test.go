package adapters

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/larrybrager-personal/talking-pet-backend/config"
	"github.com/larrybrager-personal/talking-pet-backend/domain"
)

func TestMux_CombinesStreams(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}

	workDir := t.TempDir()
	videoFile := filepath.Join(workDir, "video.mp4")
	audioFile := filepath.Join(workDir, "audio.mp3")

	// Synthesize a two second clip and a one second tone as inputs.
	if out, err := exec.Command("ffmpeg", "-y", "-f", "lavfi", "-i", "testsrc=duration=2:size=320x240:rate=12",
		"-pix_fmt", "yuv420p", videoFile).CombinedOutput(); err != nil {
		t.Fatal("Failed to create test video:", err, string(out))
	}
	if out, err := exec.Command("ffmpeg", "-y", "-f", "lavfi", "-i", "sine=frequency=440:duration=1",
		audioFile).CombinedOutput(); err != nil {
		t.Fatal("Failed to create test audio:", err, string(out))
	}

	videoBytes, err := os.ReadFile(videoFile)
	if err != nil {
		t.Fatal("Failed to read test video:", err)
	}
	audioBytes, err := os.ReadFile(audioFile)
	if err != nil {
		t.Fatal("Failed to read test audio:", err)
	}

	muxer := NewFFMPEGMuxer(NewZerologWrapper(), &config.MuxConfig{AudioLeadDelayMs: 560, AudioTailPadMs: 300})

	muxed, err := muxer.Mux(context.Background(), videoBytes, audioBytes)
	if err != nil {
		t.Fatal("Failed to mux:", err)
	}
	if len(muxed) == 0 {
		t.Fatal("Expected a non-empty muxed artifact")
	}
}

func TestMux_CorruptInputFails(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}

	muxer := NewFFMPEGMuxer(NewZerologWrapper(), &config.MuxConfig{AudioLeadDelayMs: 560})

	_, err := muxer.Mux(context.Background(), []byte("not a video"), []byte("not audio"))
	if err == nil {
		t.Fatal("Expected corrupt input to fail")
	}
	if domain.KindOf(err) != domain.MuxFailed {
		t.Fatal("Expected MuxFailed, got:", domain.KindOf(err))
	}
}
