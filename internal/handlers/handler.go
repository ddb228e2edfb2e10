package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/freee021022/onco/internal/apperr"
	"github.com/freee021022/onco/internal/auth"
	"github.com/freee021022/onco/internal/config"
	"github.com/freee021022/onco/internal/events"
	"github.com/freee021022/onco/internal/realtime"
	"github.com/freee021022/onco/internal/storage"
	"github.com/freee021022/onco/internal/types"
)

// Handler holds the dependencies shared by every route.
type Handler struct {
	store  storage.Storage
	events events.Publisher
	hub    *realtime.Hub
	issuer *auth.Issuer
	cfg    *config.Config
}

func New(store storage.Storage, publisher events.Publisher, hub *realtime.Hub, issuer *auth.Issuer, cfg *config.Config) *Handler {
	RegisterValidators()

	if publisher == nil {
		publisher = events.Nop{}
	}

	return &Handler{
		store:  store,
		events: publisher,
		hub:    hub,
		issuer: issuer,
		cfg:    cfg,
	}
}

// fail writes err as a JSON error. Anything that is not a client error is
// logged and reported as a bare 500.
func fail(ctx *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Code != apperr.CodeInternal {
		body := gin.H{"message": appErr.Message}
		if appErr.Code == apperr.CodeValidation {
			issues := appErr.Issues
			if issues == nil {
				issues = []apperr.Issue{}
			}
			body["errors"] = issues
		}
		ctx.JSON(appErr.Code.HTTPStatus(), body)
		return
	}

	log.Error().
		Err(err).
		Str("request_id", ctx.GetString(types.ContextRequestIDKey)).
		Str("method", ctx.Request.Method).
		Str("path", ctx.Request.URL.Path).
		Msg("Unhandled error")

	ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func badRequest(ctx *gin.Context, message string) {
	fail(ctx, apperr.New(apperr.CodeBadRequest, message))
}

func unauthorized(ctx *gin.Context, message string) {
	fail(ctx, apperr.New(apperr.CodeUnauthorized, message))
}

// publish never fails the request; delivery problems are only logged.
func (h *Handler) publish(ctx context.Context, eventType events.Type, key string, payload interface{}) {
	if err := h.events.Publish(ctx, events.New(eventType, key, payload)); err != nil {
		log.Error().Err(err).Str("event", string(eventType)).Msg("Failed to publish event")
	}
}
