package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/larrybrager-personal/talking-pet-backend/application/ports/inbound"
	"github.com/larrybrager-personal/talking-pet-backend/application/ports/outbound"
	"github.com/larrybrager-personal/talking-pet-backend/domain"
	"github.com/larrybrager-personal/talking-pet-backend/infrastructure/gin_interface/dto"
	"github.com/larrybrager-personal/talking-pet-backend/middleware"
)

type GenerationController interface {
	CreateGeneration(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type generationController struct {
	logger       outbound.LoggerPort
	orchestrator inbound.GenerationOrchestratorPort
	registry     *domain.ModelCapabilityRegistry
}

func NewGenerationController(
	logger outbound.LoggerPort,
	orchestrator inbound.GenerationOrchestratorPort,
	registry *domain.ModelCapabilityRegistry,
) GenerationController {
	return &generationController{
		logger:       logger,
		orchestrator: orchestrator,
		registry:     registry,
	}
}

func (g *generationController) CreateGeneration(c *gin.Context) {
	var createRequest dto.CreateGenerationRequest
	if err := c.ShouldBindJSON(&createRequest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request := domain.GenerationRequest{
		ImageURL:   createRequest.ImageURL,
		Prompt:     createRequest.Prompt,
		Seconds:    createRequest.Seconds,
		Resolution: createRequest.Resolution,
		ModelID:    createRequest.Model,
		SpeechText: createRequest.SpeechText,
		VoiceID:    createRequest.VoiceID,
	}
	if userID := c.GetString(middleware.ContextUserIDKey); userID != "" {
		request.User = &domain.UserContext{ID: userID}
	}

	var result *domain.GenerationResult
	var err error
	if request.WantsSpeech() {
		result, err = g.orchestrator.RunSpeechAndVideo(c.Request.Context(), request)
	} else {
		result, err = g.orchestrator.RunVideoOnly(c.Request.Context(), request)
	}
	if err != nil {
		g.logger.ErrorWithFields(err, "generation workflow failed", map[string]interface{}{
			"model": request.ModelID,
		})
		c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.GenerationResponse{
		AudioURL: result.AudioURL,
		VideoURL: result.VideoURL,
		FinalURL: result.FinalURL,
	})
}

func (g *generationController) ListModels(c *gin.Context) {
	supported := make(map[string]dto.ModelInfo)
	for id, capability := range g.registry.All() {
		supported[id] = dto.ModelInfo{
			RequiresAudioInput:   capability.RequiresAudioInput,
			SupportsPromptOnly:   capability.SupportsPromptOnly,
			SupportedResolutions: capability.SupportedResolutions,
			DefaultSeconds:       capability.DefaultSeconds,
			Default:              capability.Default,
		}
	}
	c.JSON(http.StatusOK, dto.ModelsResponse{SupportedModels: supported})
}

func (g *generationController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (g *generationController) RegisterRoutes(engine *gin.Engine) {
	engine.POST("/generations", g.CreateGeneration)
	engine.GET("/models", g.ListModels)
	engine.GET("/health", g.Health)
}

// statusFor maps the error taxonomy onto response codes: caller faults are
// 4xx, provider faults 502/504, our own faults 500.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.ValidationRejected:
		return http.StatusBadRequest
	case domain.ProviderRejected:
		return http.StatusUnprocessableEntity
	case domain.JobFailed, domain.ProviderUnavailable, domain.StorageUnavailable:
		return http.StatusBadGateway
	case domain.JobTimedOut:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
