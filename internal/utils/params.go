package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive decimal id.
func ParseID(raw string) (uint, error) {
	if raw == "" {
		return 0, ErrInvalidID
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}

	return uint(id), nil
}

func GetParamID(ctx *gin.Context, name string) (uint, error) {
	return ParseID(ctx.Param(name))
}

// GetQueryID returns the id in query parameter name and whether it was a
// usable positive integer. Missing, zero and non-numeric values report false.
func GetQueryID(ctx *gin.Context, name string) (uint, bool) {
	id, err := ParseID(ctx.Query(name))
	if err != nil {
		return 0, false
	}
	return id, true
}
