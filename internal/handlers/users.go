package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freee021022/onco/internal/types"
	"github.com/freee021022/onco/internal/utils"
)

func (h *Handler) GetUser(ctx *gin.Context) {
	userID, err := utils.GetParamID(ctx, "id")
	if err != nil {
		badRequest(ctx, "Invalid user ID")
		return
	}

	user, err := h.store.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(user))
}

func (h *Handler) GetDoctors(ctx *gin.Context) {
	doctors, err := h.store.GetDoctors(ctx.Request.Context())
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponses(doctors))
}
