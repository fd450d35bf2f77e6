package handlers

import (
	"net/http"
	"time"

	"parcheggiml/models"
	"parcheggiml/services"
	"parcheggiml/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const defaultDurationMinutes = 60

type FindParkingRequest struct {
	Address  string  `json:"address" binding:"required"`
	RadiusKM float64 `json:"radius_km" binding:"gte=0"`
}

type PredictParkingRequest struct {
	Address         string  `json:"address" binding:"required"`
	TargetDatetime  string  `json:"target_datetime" binding:"required"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,gte=0"`
	RadiusKM        float64 `json:"radius_km" binding:"gte=0"`
}

// Duration returns the requested stay, defaulting to one hour when the field is omitted.
func (r PredictParkingRequest) Duration() int {
	if r.DurationMinutes == nil {
		return defaultDurationMinutes
	}
	return *r.DurationMinutes
}

// RegisterParkingRequest uses pointers so that a zero coordinate is distinguishable from a missing one.
type RegisterParkingRequest struct {
	Latitude    *float64 `json:"latitude" binding:"required"`
	Longitude   *float64 `json:"longitude" binding:"required"`
	Address     string   `json:"address" binding:"required"`
	Covered     *bool    `json:"covered"`
	Paid        *bool    `json:"paid"`
	Capacity    *int     `json:"capacity"`
	PricingInfo *string  `json:"pricing_info"`
}

// UpdateParkingRequest fills in attributes reported by /missing-info.
type UpdateParkingRequest struct {
	Covered     *bool   `json:"covered"`
	Paid        *bool   `json:"paid"`
	Capacity    *int    `json:"capacity" binding:"omitempty,gte=0"`
	PricingInfo *string `json:"pricing_info"`
}

type ParkingHandler struct {
	engine   *services.RankingEngine
	registry *services.ParkingRegistry
	loc      *time.Location
	log      zerolog.Logger
}

func NewParkingHandler(engine *services.RankingEngine, registry *services.ParkingRegistry, loc *time.Location, log zerolog.Logger) *ParkingHandler {
	return &ParkingHandler{engine: engine, registry: registry, loc: loc, log: log}
}

func (h *ParkingHandler) FindParking(c *gin.Context) {
	var req FindParkingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}

	result, err := h.engine.FindParking(c.Request.Context(), req.Address, req.RadiusKM)
	if err != nil {
		respondError(c, h.log, "failed to find parking", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ParkingHandler) PredictFutureParking(c *gin.Context) {
	var req PredictParkingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}

	target, err := utils.ParseReferenceTime(req.TargetDatetime, h.loc)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid target_datetime: "+err.Error(), "")
		return
	}

	parkings, err := h.engine.PredictFutureParking(c.Request.Context(), req.Address, target, req.RadiusKM)
	if err != nil {
		respondError(c, h.log, "failed to predict parking", err)
		return
	}

	h.log.Debug().
		Str("address", req.Address).
		Time("target", target).
		Int("duration_minutes", req.Duration()).
		Int("results", len(parkings)).
		Msg("future availability predicted")
	c.JSON(http.StatusOK, gin.H{"parkings": parkings})
}

func (h *ParkingHandler) RegisterParking(c *gin.Context) {
	var req RegisterParkingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}

	parking, err := h.registry.Register(c.Request.Context(), services.RegisterInput{
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		Address:     req.Address,
		Covered:     req.Covered,
		Paid:        req.Paid,
		Capacity:    req.Capacity,
		PricingInfo: req.PricingInfo,
	})
	if err != nil {
		respondError(c, h.log, "failed to register parking", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": parking.ID, "status": "registered"})
}

func (h *ParkingHandler) UpdateParking(c *gin.Context) {
	var req UpdateParkingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}

	parking, err := h.registry.Update(c.Request.Context(), c.Param("parking_id"), models.ParkingUpdate{
		Covered:     req.Covered,
		Paid:        req.Paid,
		Capacity:    req.Capacity,
		PricingInfo: req.PricingInfo,
	})
	if err != nil {
		respondError(c, h.log, "failed to update parking", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": parking.ID, "status": "updated", "missing_fields": parking.MissingFields()})
}

func (h *ParkingHandler) MissingInfo(c *gin.Context) {
	fields, err := h.registry.MissingInfo(c.Request.Context(), c.Param("parking_id"))
	if err != nil {
		respondError(c, h.log, "failed to check missing info", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"missing_fields": fields})
}
