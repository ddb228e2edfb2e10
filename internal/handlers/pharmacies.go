package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freee021022/onco/internal/models"
)

// GetPharmacies filters by region, else city, else specialization.
func (h *Handler) GetPharmacies(ctx *gin.Context) {
	var (
		pharmacies []models.Pharmacy
		err        error
	)

	reqCtx := ctx.Request.Context()

	switch {
	case ctx.Query("region") != "":
		pharmacies, err = h.store.GetPharmaciesByRegion(reqCtx, ctx.Query("region"))
	case ctx.Query("city") != "":
		pharmacies, err = h.store.GetPharmaciesByCity(reqCtx, ctx.Query("city"))
	case ctx.Query("specialization") != "":
		pharmacies, err = h.store.GetPharmaciesBySpecialization(reqCtx, ctx.Query("specialization"))
	default:
		pharmacies, err = h.store.GetPharmacies(reqCtx)
	}

	if err != nil {
		fail(ctx, err)
		return
	}

	if pharmacies == nil {
		pharmacies = []models.Pharmacy{}
	}

	ctx.JSON(http.StatusOK, pharmacies)
}

func (h *Handler) GetTestimonials(ctx *gin.Context) {
	testimonials, err := h.store.GetTestimonials(ctx.Request.Context())
	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, testimonials)
}
