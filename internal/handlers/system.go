package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/freee021022/onco/internal/utils"
)

func (h *Handler) GetGoogleMapsConfig(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"apiKey": h.cfg.GoogleMapsAPIKey})
}

func (h *Handler) HealthCheck(ctx *gin.Context) {
	if err := h.store.Ping(ctx.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unavailable",
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "Onconet24 is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// WebSocket subscribes the authenticated user to message pushes.
func (h *Handler) WebSocket(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		unauthorized(ctx, "User not authenticated")
		return
	}

	h.hub.Serve(ctx.Writer, ctx.Request, userID)
}
