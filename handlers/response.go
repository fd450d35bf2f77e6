package handlers

import (
	"errors"
	"net/http"

	"parcheggiml/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorResponse writes {error} for client faults and {error, detail} for server faults.
func ErrorResponse(c *gin.Context, statusCode int, message string, detail string) {
	body := gin.H{"error": message}
	if detail != "" {
		body["detail"] = detail
	}
	c.JSON(statusCode, body)
}

// respondError maps a service error onto the HTTP contract.
func respondError(c *gin.Context, log zerolog.Logger, message string, err error) {
	switch {
	case errors.Is(err, models.ErrAddressNotFound):
		ErrorResponse(c, http.StatusNotFound, "address not found", "")
	case errors.Is(err, models.ErrParkingNotFound):
		ErrorResponse(c, http.StatusNotFound, "parking not found", "")
	case errors.Is(err, models.ErrInvalidInput):
		ErrorResponse(c, http.StatusBadRequest, err.Error(), "")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
		ErrorResponse(c, http.StatusInternalServerError, message, err.Error())
	}
}
