package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/larrybrager-personal/talking-pet-backend/infrastructure/adapters"
	"github.com/larrybrager-personal/talking-pet-backend/infrastructure/gin_interface/dto"
)

// DebugController exposes the URL header inspection helper kept around for
// verifying that artifact URLs serve provider-friendly headers.
type DebugController interface {
	RegisterRoutes(g *gin.Engine)
}

type debugController struct {
	fetcher adapters.ContentFetcher
}

func NewDebugController(fetcher adapters.ContentFetcher) DebugController {
	return &debugController{fetcher: fetcher}
}

func (d *debugController) Head(c *gin.Context) {
	var headRequest dto.HeadRequest
	if err := c.ShouldBindJSON(&headRequest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := d.fetcher.Head(c.Request.Context(), headRequest.URL)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.HeadResponse{
		Status:      info.StatusCode,
		ContentType: info.ContentType,
		Bytes:       info.SizeBytes,
	})
}

func (d *debugController) RegisterRoutes(engine *gin.Engine) {
	engine.POST("/debug/head", d.Head)
}
