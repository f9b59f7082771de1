package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	userdomain "directory-service/internal/domain/user"
	"directory-service/internal/usecase/district"
	"directory-service/internal/usecase/place"
	"directory-service/internal/usecase/user"
)

// MockDistrictService is a mock implementation of district.Service
type MockDistrictService struct {
	mock.Mock
}

func (m *MockDistrictService) CreateDistrict(ctx context.Context, in district.CreateDistrictRequest) (*district.District, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*district.District), args.Error(1)
}

func (m *MockDistrictService) UpdateDistrict(ctx context.Context, in district.UpdateDistrictRequest) (*district.District, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*district.District), args.Error(1)
}

func (m *MockDistrictService) DeleteDistrict(ctx context.Context, in district.DeleteDistrictRequest) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockDistrictService) ListDistricts(ctx context.Context) ([]district.District, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]district.District), args.Error(1)
}

// MockPlaceService is a mock implementation of place.Service
type MockPlaceService struct {
	mock.Mock
}

func (m *MockPlaceService) CreatePlace(ctx context.Context, in place.CreatePlaceRequest) (*place.Place, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*place.Place), args.Error(1)
}

func (m *MockPlaceService) UpdatePlace(ctx context.Context, in place.UpdatePlaceRequest) (*place.Place, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*place.Place), args.Error(1)
}

func (m *MockPlaceService) DeletePlace(ctx context.Context, in place.DeletePlaceRequest) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockPlaceService) ListPlaces(ctx context.Context, in place.ListPlacesRequest) ([]place.PlaceView, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]place.PlaceView), args.Error(1)
}

// MockUserService is a mock implementation of user.Service
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, in user.CreateUserRequest) (*user.CreateUserResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.CreateUserResponse), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, in user.GetUserRequest) (*userdomain.View, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userdomain.View), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]userdomain.View, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]userdomain.View), args.Error(1)
}

func (m *MockUserService) ListUserRecords(ctx context.Context) ([]userdomain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]userdomain.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, in user.UpdateUserRequest) (*userdomain.View, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userdomain.View), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, in user.ChangePasswordRequest) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockUserService) Login(ctx context.Context, in user.LoginRequest) (*user.LoginResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.LoginResponse), args.Error(1)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// envelope decodes a MessageResponse keeping Data raw for per-test decoding
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}
