package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/freee021022/onco/internal/events"
	"github.com/freee021022/onco/internal/models"
	"github.com/freee021022/onco/internal/types"
	"github.com/freee021022/onco/internal/utils"
)

// GetSecondOpinionRequests filters by patientId, else doctorId, else
// returns every request.
func (h *Handler) GetSecondOpinionRequests(ctx *gin.Context) {
	var (
		requests []models.SecondOpinionRequest
		err      error
	)

	reqCtx := ctx.Request.Context()

	if patientID, ok := utils.GetQueryID(ctx, "patientId"); ok {
		requests, err = h.store.GetSecondOpinionRequestsByPatient(reqCtx, patientID)
	} else if doctorID, ok := utils.GetQueryID(ctx, "doctorId"); ok {
		requests, err = h.store.GetSecondOpinionRequestsByDoctor(reqCtx, doctorID)
	} else {
		requests, err = h.store.GetSecondOpinionRequests(reqCtx)
	}

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, requests)
}

func (h *Handler) CreateSecondOpinionRequest(ctx *gin.Context) {
	var body types.InsertSecondOpinionRequest

	if err := bindJSON(ctx, &body, "Invalid request data"); err != nil {
		fail(ctx, err)
		return
	}

	request := body.Model()
	if err := h.store.CreateSecondOpinionRequest(ctx.Request.Context(), &request); err != nil {
		fail(ctx, err)
		return
	}

	h.publish(ctx.Request.Context(), events.SecondOpinionCreated, strconv.FormatUint(uint64(request.ID), 10), &request)

	ctx.JSON(http.StatusCreated, request)
}

func (h *Handler) UpdateSecondOpinionRequestStatus(ctx *gin.Context) {
	requestID, err := utils.GetParamID(ctx, "id")
	if err != nil {
		badRequest(ctx, "Invalid request ID or status")
		return
	}

	var body types.UpdateStatusRequest

	if err := bindJSON(ctx, &body, "Invalid request ID or status"); err != nil {
		fail(ctx, err)
		return
	}

	updated, err := h.store.UpdateSecondOpinionRequestStatus(ctx.Request.Context(), requestID, body.Status)
	if err != nil {
		fail(ctx, err)
		return
	}

	h.publish(ctx.Request.Context(), events.SecondOpinionStatusChanged, strconv.FormatUint(uint64(updated.ID), 10), updated)

	ctx.JSON(http.StatusOK, updated)
}
