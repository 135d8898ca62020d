package domain

import "fmt"

// ModelCapability is the static description of one generation model.
// Loaded once at process start and never mutated.
type ModelCapability struct {
	ModelID              string
	RequiresAudioInput   bool
	SupportsPromptOnly   bool
	SupportedResolutions []string
	DefaultSeconds       int
	// ProModeThreshold names the resolution at which the model switches to
	// its higher-fidelity mode. Empty means the model has no such mode.
	ProModeThreshold    string
	AspectRatioPro      string
	AspectRatioStandard string
	Default             bool
}

func (c ModelCapability) SupportsResolution(resolution string) bool {
	for _, r := range c.SupportedResolutions {
		if r == resolution {
			return true
		}
	}
	return false
}

// EmbedsOutputAudio reports whether the model's output already carries a
// synchronized audio track. Talking-head models consume the speech track at
// generation time, so their clips never need local muxing.
func (c ModelCapability) EmbedsOutputAudio() bool {
	return c.RequiresAudioInput
}

// ModelCapabilityRegistry is an immutable lookup table keyed by model id.
type ModelCapabilityRegistry struct {
	models    map[string]ModelCapability
	defaultID string
}

func NewModelCapabilityRegistry(models []ModelCapability) (*ModelCapabilityRegistry, error) {
	byID := make(map[string]ModelCapability, len(models))
	defaultID := ""
	for _, m := range models {
		if _, dup := byID[m.ModelID]; dup {
			return nil, fmt.Errorf("duplicate model %q", m.ModelID)
		}
		byID[m.ModelID] = m
		if m.Default {
			if defaultID != "" {
				return nil, fmt.Errorf("both %q and %q marked default", defaultID, m.ModelID)
			}
			defaultID = m.ModelID
		}
	}
	if defaultID == "" {
		return nil, fmt.Errorf("no model marked default")
	}
	return &ModelCapabilityRegistry{models: byID, defaultID: defaultID}, nil
}

func (r *ModelCapabilityRegistry) DefaultModelID() string {
	return r.defaultID
}

func (r *ModelCapabilityRegistry) Lookup(modelID string) (ModelCapability, bool) {
	m, ok := r.models[modelID]
	return m, ok
}

// All returns the capability table for listing endpoints.
func (r *ModelCapabilityRegistry) All() map[string]ModelCapability {
	out := make(map[string]ModelCapability, len(r.models))
	for id, m := range r.models {
		out[id] = m
	}
	return out
}

// Validate applies the capability rules. Deterministic and side-effect free.
func (r *ModelCapabilityRegistry) Validate(modelID string, wantsAudio bool, resolution string) error {
	m, ok := r.models[modelID]
	if !ok {
		return NewValidationError(fmt.Sprintf("unsupported model %q", modelID))
	}
	if m.RequiresAudioInput && !wantsAudio {
		return NewValidationError(fmt.Sprintf("model %q requires paired speech input", modelID))
	}
	if !wantsAudio && !m.SupportsPromptOnly {
		return NewValidationError(fmt.Sprintf("model %q does not support prompt-only generation", modelID))
	}
	if !m.SupportsResolution(resolution) {
		return NewValidationError(fmt.Sprintf("model %q does not support resolution %q", modelID, resolution))
	}
	return nil
}

// ProMode reports whether the requested resolution puts the model into its
// higher-fidelity mode. Derived, never user-settable.
func (r *ModelCapabilityRegistry) ProMode(modelID, resolution string) bool {
	m, ok := r.models[modelID]
	if !ok || m.ProModeThreshold == "" {
		return false
	}
	return resolution == m.ProModeThreshold
}

// DefaultModels is the production capability table.
func DefaultModels() []ModelCapability {
	return []ModelCapability{
		{
			ModelID:              "minimax/hailuo-02",
			SupportsPromptOnly:   true,
			SupportedResolutions: []string{"768p", "1080p"},
			DefaultSeconds:       6,
			Default:              true,
		},
		{
			ModelID:              "kwaivgi/kling-v2.1",
			SupportsPromptOnly:   true,
			SupportedResolutions: []string{"768p", "1080p"},
			DefaultSeconds:       5,
			ProModeThreshold:     "1080p",
			AspectRatioPro:       "16:9",
			AspectRatioStandard:  "1:1",
		},
		{
			ModelID:              "bytedance/seedance-1-lite",
			SupportsPromptOnly:   true,
			SupportedResolutions: []string{"480p", "720p", "1080p"},
			DefaultSeconds:       5,
		},
		{
			ModelID:              "sonic/talking-head",
			RequiresAudioInput:   true,
			SupportedResolutions: []string{"512p", "768p"},
			DefaultSeconds:       6,
		},
	}
}
