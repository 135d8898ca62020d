package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaxAudioBytes is the hard cap on a synthesized speech track. The video
// providers reject source audio above roughly 10MB, so anything bigger is
// refused before it is ever uploaded.
const MaxAudioBytes = 9_500_000

// AnonymousStoragePrefix scopes artifacts of unauthenticated callers.
const AnonymousStoragePrefix = "anonymous"

type GenerationRequest struct {
	ImageURL   string
	Prompt     string
	Seconds    int
	Resolution string
	ModelID    string
	SpeechText string
	VoiceID    string
	User       *UserContext
}

// WantsSpeech reports whether the request asks for the speech+video workflow.
func (r GenerationRequest) WantsSpeech() bool {
	return r.SpeechText != "" || r.VoiceID != ""
}

// Validate enforces the cross-field rule that schema binding cannot express:
// speech text and voice id travel together or not at all.
func (r GenerationRequest) Validate() error {
	if (r.SpeechText == "") != (r.VoiceID == "") {
		return NewValidationError("speech_text and voice_id must be provided together")
	}
	return nil
}

type UserContext struct {
	ID string
}

// StoragePrefixFor maps a caller to the prefix their artifacts live under.
// Authenticated callers get users/<uuid> with the id normalized; anything
// that is not a valid uuid is a caller fault.
func StoragePrefixFor(user *UserContext) (string, error) {
	if user == nil || user.ID == "" {
		return AnonymousStoragePrefix, nil
	}
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return "", NewValidationError(fmt.Sprintf("invalid user id %q", user.ID))
	}
	return "users/" + id.String(), nil
}

// BuildStorageKey produces a unique object key under the caller's prefix.
// A fresh uuid per call means retried or concurrent uploads never collide.
func BuildStorageKey(prefix, kind, ext string) string {
	return fmt.Sprintf("%s/%s/%s.%s", prefix, kind, uuid.NewString(), strings.TrimPrefix(ext, "."))
}

type SpeechArtifact struct {
	Bytes       []byte
	ContentType string
}

func (a SpeechArtifact) SizeBytes() int {
	return len(a.Bytes)
}

type StoredArtifact struct {
	PublicURL   string
	StoragePath string
	ContentType string
}

type GenerationResult struct {
	AudioURL string
	VideoURL string
	FinalURL string
}
