package handlers

import (
	"net/http"

	"parcheggiml/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type FeedbackRequest struct {
	ParkingID     string  `json:"parking_id" binding:"required"`
	FreeSpots     *int    `json:"free_spots" binding:"required"`
	ParkedSuccess *bool   `json:"parked_success" binding:"required"`
	Weather       *string `json:"weather"`
	EventContext  *string `json:"event_context"`
	PhotoURL      *string `json:"photo_url"`
}

type FeedbackHandler struct {
	ingestor *services.FeedbackIngestor
	log      zerolog.Logger
}

func NewFeedbackHandler(ingestor *services.FeedbackIngestor, log zerolog.Logger) *FeedbackHandler {
	return &FeedbackHandler{ingestor: ingestor, log: log}
}

func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}

	err := h.ingestor.Submit(c.Request.Context(), services.FeedbackInput{
		ParkingID:     req.ParkingID,
		FreeSpots:     *req.FreeSpots,
		ParkedSuccess: *req.ParkedSuccess,
		Weather:       req.Weather,
		EventContext:  req.EventContext,
		PhotoURL:      req.PhotoURL,
	})
	if err != nil {
		respondError(c, h.log, "failed to submit feedback", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
