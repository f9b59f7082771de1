package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directory-service/internal/usecase/district"
)

// DistrictHandler handles HTTP requests for district operations
type DistrictHandler struct {
	svc district.Service
	log *zap.Logger
}

// NewDistrictHandler creates a new DistrictHandler instance
func NewDistrictHandler(svc district.Service, log *zap.Logger) *DistrictHandler {
	return &DistrictHandler{svc: svc, log: log}
}

// DistrictRequest is the body of district create and update requests
type DistrictRequest struct {
	Name string `json:"name"`
}

// DistrictResponse represents a district in API responses
type DistrictResponse struct {
	ID   string `json:"id"`
	Name string `json:"district_name"`
}

// ListDistricts handles GET /district/
func (h *DistrictHandler) ListDistricts(c *gin.Context) {
	list, err := h.list(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Data: list})
}

// CreateDistrict handles POST /district/
func (h *DistrictHandler) CreateDistrict(c *gin.Context) {
	var req DistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, "Invalid request body", err)
		return
	}

	h.log.Info("Gin CreateDistrict request", zap.String("name", req.Name))

	if _, err := h.svc.CreateDistrict(c.Request.Context(), district.CreateDistrictRequest{Name: req.Name}); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondList(c, http.StatusCreated, "District added")
}

// UpdateDistrict handles PUT /district/:id/
func (h *DistrictHandler) UpdateDistrict(c *gin.Context) {
	var req DistrictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, "Invalid request body", err)
		return
	}

	id := c.Param("id")
	h.log.Info("Gin UpdateDistrict request", zap.String("id", id), zap.String("name", req.Name))

	_, err := h.svc.UpdateDistrict(c.Request.Context(), district.UpdateDistrictRequest{ID: id, Name: req.Name})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondList(c, http.StatusOK, "District updated")
}

// DeleteDistrict handles DELETE /district/:id/
func (h *DistrictHandler) DeleteDistrict(c *gin.Context) {
	id := c.Param("id")
	h.log.Info("Gin DeleteDistrict request", zap.String("id", id))

	if err := h.svc.DeleteDistrict(c.Request.Context(), district.DeleteDistrictRequest{ID: id}); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondList(c, http.StatusOK, "District deleted")
}

func (h *DistrictHandler) respondList(c *gin.Context, status int, message string) {
	list, err := h.list(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(status, MessageResponse{Message: message, Data: list})
}

func (h *DistrictHandler) list(c *gin.Context) ([]DistrictResponse, error) {
	districts, err := h.svc.ListDistricts(c.Request.Context())
	if err != nil {
		return nil, err
	}

	out := make([]DistrictResponse, len(districts))
	for i, d := range districts {
		out[i] = DistrictResponse{ID: d.ID, Name: d.Name}
	}
	return out, nil
}
