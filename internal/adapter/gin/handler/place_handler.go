package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directory-service/internal/usecase/place"
)

// PlaceHandler handles HTTP requests for place operations
type PlaceHandler struct {
	svc place.Service
	log *zap.Logger
}

// NewPlaceHandler creates a new PlaceHandler instance
func NewPlaceHandler(svc place.Service, log *zap.Logger) *PlaceHandler {
	return &PlaceHandler{svc: svc, log: log}
}

// PlaceRequest is the body of place create and update requests
type PlaceRequest struct {
	Name       string `json:"place_name"`
	DistrictID string `json:"district_id"`
}

// PlaceResponse represents a place with its district name
type PlaceResponse struct {
	ID           string `json:"id"`
	Name         string `json:"place_name"`
	DistrictID   string `json:"district_id"`
	DistrictName string `json:"district_name"`
}

// ListPlaces handles GET /place/ with an optional ?district= filter
func (h *PlaceHandler) ListPlaces(c *gin.Context) {
	list, err := h.list(c, c.Query("district"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Data: list})
}

// CreatePlace handles POST /place/
func (h *PlaceHandler) CreatePlace(c *gin.Context) {
	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, "Invalid request body", err)
		return
	}

	h.log.Info("Gin CreatePlace request", zap.String("name", req.Name), zap.String("district_id", req.DistrictID))

	_, err := h.svc.CreatePlace(c.Request.Context(), place.CreatePlaceRequest{Name: req.Name, DistrictID: req.DistrictID})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondList(c, http.StatusCreated, "Place added")
}

// UpdatePlace handles PUT /place/:id/
func (h *PlaceHandler) UpdatePlace(c *gin.Context) {
	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, "Invalid request body", err)
		return
	}

	id := c.Param("id")
	h.log.Info("Gin UpdatePlace request", zap.String("id", id), zap.String("district_id", req.DistrictID))

	_, err := h.svc.UpdatePlace(c.Request.Context(), place.UpdatePlaceRequest{
		ID:         id,
		Name:       req.Name,
		DistrictID: req.DistrictID,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondList(c, http.StatusOK, "Place updated")
}

// DeletePlace handles DELETE /place/:id/
func (h *PlaceHandler) DeletePlace(c *gin.Context) {
	id := c.Param("id")
	h.log.Info("Gin DeletePlace request", zap.String("id", id))

	if err := h.svc.DeletePlace(c.Request.Context(), place.DeletePlaceRequest{ID: id}); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondList(c, http.StatusOK, "Place deleted")
}

func (h *PlaceHandler) respondList(c *gin.Context, status int, message string) {
	list, err := h.list(c, "")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(status, MessageResponse{Message: message, Data: list})
}

func (h *PlaceHandler) list(c *gin.Context, districtID string) ([]PlaceResponse, error) {
	places, err := h.svc.ListPlaces(c.Request.Context(), place.ListPlacesRequest{DistrictID: districtID})
	if err != nil {
		return nil, err
	}

	out := make([]PlaceResponse, len(places))
	for i, p := range places {
		out[i] = PlaceResponse{ID: p.ID, Name: p.Name, DistrictID: p.DistrictID, DistrictName: p.DistrictName}
	}
	return out, nil
}
