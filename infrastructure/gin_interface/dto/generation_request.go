package dto

type CreateGenerationRequest struct {
	ImageURL   string `json:"image_url" binding:"required,url"`
	Prompt     string `json:"prompt" binding:"required"`
	Seconds    int    `json:"seconds"`
	Resolution string `json:"resolution"`
	Model      string `json:"model"`
	SpeechText string `json:"speech_text"`
	VoiceID    string `json:"voice_id"`
}

type GenerationResponse struct {
	AudioURL string `json:"audio_url,omitempty"`
	VideoURL string `json:"video_url"`
	FinalURL string `json:"final_url"`
}

type HeadRequest struct {
	URL string `json:"url" binding:"required,url"`
}

type HeadResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Bytes       int64  `json:"bytes"`
}

type ModelInfo struct {
	RequiresAudioInput   bool     `json:"requires_audio_input"`
	SupportsPromptOnly   bool     `json:"supports_prompt_only"`
	SupportedResolutions []string `json:"supported_resolutions"`
	DefaultSeconds       int      `json:"default_seconds"`
	Default              bool     `json:"default"`
}

type ModelsResponse struct {
	SupportedModels map[string]ModelInfo `json:"supported_models"`
}
