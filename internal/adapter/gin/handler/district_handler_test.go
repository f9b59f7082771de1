package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"directory-service/internal/usecase/district"
	apperrors "directory-service/pkg/errors"
)

func setupDistrictTest(t *testing.T) (*gin.Engine, *MockDistrictService) {
	svc := new(MockDistrictService)
	h := NewDistrictHandler(svc, zaptest.NewLogger(t))

	r := gin.New()
	r.GET("/district/", h.ListDistricts)
	r.POST("/district/", h.CreateDistrict)
	r.PUT("/district/:id/", h.UpdateDistrict)
	r.DELETE("/district/:id/", h.DeleteDistrict)
	return r, svc
}

func TestListDistricts(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, svc := setupDistrictTest(t)
		svc.On("ListDistricts", mock.Anything).Return([]district.District{{ID: "1", Name: "North"}}, nil)

		w := doJSON(t, r, http.MethodGet, "/district/", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[{"id":"1","district_name":"North"}]}`, w.Body.String())
	})

	t.Run("Empty list is an array", func(t *testing.T) {
		r, svc := setupDistrictTest(t)
		svc.On("ListDistricts", mock.Anything).Return([]district.District{}, nil)

		w := doJSON(t, r, http.MethodGet, "/district/", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})

	t.Run("Internal error is generic", func(t *testing.T) {
		r, svc := setupDistrictTest(t)
		svc.On("ListDistricts", mock.Anything).Return(nil, errors.New("connection refused"))

		w := doJSON(t, r, http.MethodGet, "/district/", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())
	})
}

func TestCreateDistrict(t *testing.T) {
	t.Run("Success returns refreshed list", func(t *testing.T) {
		r, svc := setupDistrictTest(t)
		svc.On("CreateDistrict", mock.Anything, district.CreateDistrictRequest{Name: "North"}).
			Return(&district.District{ID: "1", Name: "North"}, nil)
		svc.On("ListDistricts", mock.Anything).Return([]district.District{{ID: "1", Name: "North"}}, nil)

		w := doJSON(t, r, http.MethodPost, "/district/", map[string]string{"name": "North"})

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decode(t, w)
		assert.Equal(t, "District added", env.Message)
		var list []DistrictResponse
		require.NoError(t, json.Unmarshal(env.Data, &list))
		assert.Equal(t, []DistrictResponse{{ID: "1", Name: "North"}}, list)
		svc.AssertExpectations(t)
	})

	t.Run("Malformed body", func(t *testing.T) {
		r, svc := setupDistrictTest(t)

		w := doJSON(t, r, http.MethodPost, "/district/", "{not json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decode(t, w).Message)
		svc.AssertNotCalled(t, "CreateDistrict", mock.Anything, mock.Anything)
	})
}

func TestUpdateDistrict(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, svc := setupDistrictTest(t)
		svc.On("UpdateDistrict", mock.Anything, district.UpdateDistrictRequest{ID: "1", Name: "Northeast"}).
			Return(&district.District{ID: "1", Name: "Northeast"}, nil)
		svc.On("ListDistricts", mock.Anything).Return([]district.District{{ID: "1", Name: "Northeast"}}, nil)

		w := doJSON(t, r, http.MethodPut, "/district/1/", map[string]string{"name": "Northeast"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "District updated", decode(t, w).Message)
	})

	t.Run("Not found", func(t *testing.T) {
		r, svc := setupDistrictTest(t)
		svc.On("UpdateDistrict", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewNotFoundError("district", "District not found"))

		w := doJSON(t, r, http.MethodPut, "/district/9/", map[string]string{"name": "x"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"District not found"}`, w.Body.String())
		svc.AssertNotCalled(t, "ListDistricts", mock.Anything)
	})

	t.Run("Invalid id", func(t *testing.T) {
		r, svc := setupDistrictTest(t)
		svc.On("UpdateDistrict", mock.Anything, mock.Anything).Return(nil, apperrors.ErrInvalidID)

		w := doJSON(t, r, http.MethodPut, "/district/abc/", map[string]string{"name": "x"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Invalid ID"}`, w.Body.String())
	})
}

func TestDeleteDistrict(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, svc := setupDistrictTest(t)
		svc.On("DeleteDistrict", mock.Anything, district.DeleteDistrictRequest{ID: "1"}).Return(nil)
		svc.On("ListDistricts", mock.Anything).Return([]district.District{{ID: "2", Name: "South"}}, nil)

		w := doJSON(t, r, http.MethodDelete, "/district/1/", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decode(t, w)
		assert.Equal(t, "District deleted", env.Message)
		assert.JSONEq(t, `[{"id":"2","district_name":"South"}]`, string(env.Data))
	})

	t.Run("Not found", func(t *testing.T) {
		r, svc := setupDistrictTest(t)
		svc.On("DeleteDistrict", mock.Anything, mock.Anything).
			Return(apperrors.NewNotFoundError("district", "District not found"))

		w := doJSON(t, r, http.MethodDelete, "/district/9/", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
