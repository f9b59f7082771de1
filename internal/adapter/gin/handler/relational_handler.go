package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directory-service/internal/usecase/district"
	"directory-service/internal/usecase/place"
	"directory-service/internal/usecase/user"
	apperrors "directory-service/pkg/errors"
)

// RowHandler serves the query-parameter surface of the relational
// deployment. Responses are flat table rows keyed by column name.
type RowHandler struct {
	districts district.Service
	places    place.Service
	users     user.Service
	log       *zap.Logger
}

// NewRowHandler creates a new RowHandler instance
func NewRowHandler(districts district.Service, places place.Service, users user.Service, log *zap.Logger) *RowHandler {
	return &RowHandler{districts: districts, places: places, users: users, log: log}
}

// DistrictRow mirrors a tbl_district row
type DistrictRow struct {
	DistrictID   int64  `json:"district_id"`
	DistrictName string `json:"district_name"`
}

// PlaceRow mirrors a tbl_place row
type PlaceRow struct {
	PlaceID    int64  `json:"place_id"`
	PlaceName  string `json:"place_name"`
	DistrictID int64  `json:"district_id"`
}

// UserRow mirrors a tbl_user row, password column included.
type UserRow struct {
	UserID       int64  `json:"user_id"`
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
	UserPassword string `json:"user_password"`
	PlaceID      int64  `json:"place_id"`
}

// CreateDistrict handles POST /districts?name=
func (h *RowHandler) CreateDistrict(c *gin.Context) {
	name, ok := h.requireQuery(c, "name")
	if !ok {
		return
	}

	d, err := h.districts.CreateDistrict(c.Request.Context(), district.CreateDistrictRequest{Name: name})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, DistrictRow{DistrictID: rowID(d.ID), DistrictName: d.Name})
}

// CreatePlace handles POST /places?name=&district_id=
func (h *RowHandler) CreatePlace(c *gin.Context) {
	name, ok := h.requireQuery(c, "name")
	if !ok {
		return
	}
	districtID, ok := h.requireIntQuery(c, "district_id")
	if !ok {
		return
	}

	p, err := h.places.CreatePlace(c.Request.Context(), place.CreatePlaceRequest{Name: name, DistrictID: districtID})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, PlaceRow{PlaceID: rowID(p.ID), PlaceName: p.Name, DistrictID: rowID(p.DistrictID)})
}

// CreateUser handles POST /users?name=&email=&password=&place_id=
func (h *RowHandler) CreateUser(c *gin.Context) {
	name, ok := h.requireQuery(c, "name")
	if !ok {
		return
	}
	email, ok := h.requireQuery(c, "email")
	if !ok {
		return
	}
	password, ok := h.requireQuery(c, "password")
	if !ok {
		return
	}
	placeID, ok := h.requireIntQuery(c, "place_id")
	if !ok {
		return
	}

	resp, err := h.users.CreateUser(c.Request.Context(), user.CreateUserRequest{
		FullName: name,
		Email:    email,
		Password: password,
		PlaceID:  placeID,
	})
	if err != nil {
		var exists *apperrors.AlreadyExistsError
		if errors.As(err, &exists) {
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "email exists"})
			return
		}
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, UserRow{
		UserID:       rowID(resp.ID),
		UserName:     name,
		UserEmail:    email,
		UserPassword: password,
		PlaceID:      rowID(placeID),
	})
}

// ListUsers handles GET /users
func (h *RowHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUserRecords(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	rows := make([]UserRow, len(users))
	for i, u := range users {
		rows[i] = UserRow{
			UserID:       rowID(u.ID),
			UserName:     u.FullName,
			UserEmail:    u.Email,
			UserPassword: u.Password,
			PlaceID:      rowID(u.PlaceID),
		}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *RowHandler) requireQuery(c *gin.Context, key string) (string, bool) {
	v, ok := c.GetQuery(key)
	if !ok {
		respondBadRequest(c, h.log, "missing query parameter: "+key, nil)
		return "", false
	}
	return v, true
}

// requireIntQuery returns the parameter unchanged once it is known to be an integer.
func (h *RowHandler) requireIntQuery(c *gin.Context, key string) (string, bool) {
	v, ok := h.requireQuery(c, key)
	if !ok {
		return "", false
	}
	if _, err := strconv.ParseInt(v, 10, 64); err != nil {
		respondBadRequest(c, h.log, "query parameter "+key+" must be an integer", err)
		return "", false
	}
	return v, true
}

// rowID converts a relational store id back to its integer column value.
func rowID(id string) int64 {
	n, _ := strconv.ParseInt(id, 10, 64)
	return n
}
