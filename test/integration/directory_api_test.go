package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"directory-service/internal/adapter/db/relational"
	"directory-service/internal/adapter/gin/handler"
	ginrouter "directory-service/internal/adapter/gin/router"
	"directory-service/internal/adapter/repository/cached"
	"directory-service/internal/adapter/storage"
	"directory-service/internal/config"
	"directory-service/internal/usecase/district"
	"directory-service/internal/usecase/place"
	"directory-service/internal/usecase/user"
)

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// DirectoryAPIIntegrationTestSuite drives the real router, usecases and
// relational repositories over an in-memory SQLite database.
type DirectoryAPIIntegrationTestSuite struct {
	suite.Suite
	backend string
	db      *gorm.DB
	fs      afero.Fs
	server  *httptest.Server
	client  *http.Client
}

func (s *DirectoryAPIIntegrationTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(s.T(), zaptest.Level(zap.WarnLevel))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(relational.AutoMigrate(db))
	s.db = db

	districtRepo := relational.NewDistrictRepo(db, log)
	placeRepo := relational.NewPlaceRepo(db, log)
	userRepo := cached.NewCachedUserRepository(relational.NewUserRepo(db, log), nil, log)

	s.fs = afero.NewMemMapFs()
	photos := storage.NewPhotoStore(s.fs, "uploads/users", log)

	districtUC := district.New(districtRepo, nil, log)
	placeUC := place.New(placeRepo, districtRepo, nil, log)
	userUC := user.New(userRepo, placeRepo, photos, log)

	handlers := ginrouter.Handlers{
		District: handler.NewDistrictHandler(districtUC, log),
		Place:    handler.NewPlaceHandler(placeUC, log),
		User:     handler.NewUserHandler(userUC, log),
		Rows:     handler.NewRowHandler(districtUC, placeUC, userUC, log),
	}

	router := ginrouter.SetupRouter(handlers, nil, ginrouter.Options{
		ServiceName: "directory-service",
		Backend:     s.backend,
	}, log)

	s.server = httptest.NewServer(router)
	s.client = s.server.Client()
}

func (s *DirectoryAPIIntegrationTestSuite) TearDownTest() {
	s.server.Close()
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (s *DirectoryAPIIntegrationTestSuite) makeRequest(method, endpoint string, body any) *http.Response {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, s.server.URL+endpoint, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *DirectoryAPIIntegrationTestSuite) decode(resp *http.Response, out any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

func (s *DirectoryAPIIntegrationTestSuite) decodeEnvelope(resp *http.Response, data any) envelope {
	var env envelope
	s.decode(resp, &env)
	if data != nil && len(env.Data) > 0 {
		s.Require().NoError(json.Unmarshal(env.Data, data))
	}
	return env
}

// DocumentAPISuite covers the JSON envelope surface.
type DocumentAPISuite struct {
	DirectoryAPIIntegrationTestSuite
}

func TestDocumentAPISuite(t *testing.T) {
	suite.Run(t, &DocumentAPISuite{DirectoryAPIIntegrationTestSuite{backend: config.BackendDocument}})
}

func (s *DocumentAPISuite) createDistrict(name string) handler.DistrictResponse {
	resp := s.makeRequest(http.MethodPost, "/district/", handler.DistrictRequest{Name: name})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var list []handler.DistrictResponse
	env := s.decodeEnvelope(resp, &list)
	s.Equal("District added", env.Message)
	for _, d := range list {
		if d.Name == name {
			return d
		}
	}
	s.FailNow("created district missing from list", name)
	return handler.DistrictResponse{}
}

func (s *DocumentAPISuite) createPlace(name, districtID string) handler.PlaceResponse {
	resp := s.makeRequest(http.MethodPost, "/place/", handler.PlaceRequest{Name: name, DistrictID: districtID})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var list []handler.PlaceResponse
	s.decodeEnvelope(resp, &list)
	for _, p := range list {
		if p.Name == name {
			return p
		}
	}
	s.FailNow("created place missing from list", name)
	return handler.PlaceResponse{}
}

func (s *DocumentAPISuite) register(fields map[string]string, photoName string, photo []byte) *http.Response {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		s.Require().NoError(w.WriteField(k, v))
	}
	if photoName != "" {
		part, err := w.CreateFormFile("photo", photoName)
		s.Require().NoError(err)
		_, err = part.Write(photo)
		s.Require().NoError(err)
	}
	s.Require().NoError(w.Close())

	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/users/", &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *DocumentAPISuite) registerUser(name, email, password, placeID string) string {
	resp := s.register(map[string]string{
		"full_name": name,
		"email":     email,
		"password":  password,
		"place_id":  placeID,
	}, "", nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var data struct {
		ID string `json:"id"`
	}
	env := s.decodeEnvelope(resp, &data)
	s.Equal("User registered", env.Message)
	s.Require().NotEmpty(data.ID)
	return data.ID
}

func (s *DocumentAPISuite) TestHealth() {
	resp := s.makeRequest(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]string
	s.decode(resp, &body)
	s.Equal("healthy", body["status"])
	s.Equal(config.BackendDocument, body["backend"])
}

func (s *DocumentAPISuite) TestDistrictLifecycle() {
	north := s.createDistrict("North")
	south := s.createDistrict("South")
	s.NotEqual(north.ID, south.ID)

	resp := s.makeRequest(http.MethodPut, "/district/"+north.ID+"/", handler.DistrictRequest{Name: "Northeast"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var list []handler.DistrictResponse
	env := s.decodeEnvelope(resp, &list)
	s.Equal("District updated", env.Message)
	s.Contains(list, handler.DistrictResponse{ID: north.ID, Name: "Northeast"})

	resp = s.makeRequest(http.MethodDelete, "/district/"+north.ID+"/", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	list = nil
	env = s.decodeEnvelope(resp, &list)
	s.Equal("District deleted", env.Message)
	s.Equal([]handler.DistrictResponse{south}, list, "remaining ids are untouched")

	resp = s.makeRequest(http.MethodDelete, "/district/"+north.ID+"/", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *DocumentAPISuite) TestPlaceRequiresExistingDistrict() {
	resp := s.makeRequest(http.MethodPost, "/place/", handler.PlaceRequest{Name: "Harbor", DistrictID: "999"})
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest(http.MethodGet, "/place/", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var list []handler.PlaceResponse
	s.decodeEnvelope(resp, &list)
	s.Empty(list, "failed create must not persist")
}

func (s *DocumentAPISuite) TestPlaceListFilteredByDistrict() {
	north := s.createDistrict("North")
	south := s.createDistrict("South")
	harbor := s.createPlace("Harbor", north.ID)
	s.createPlace("Market", south.ID)
	s.Equal("North", harbor.DistrictName)

	resp := s.makeRequest(http.MethodGet, "/place/?district="+url.QueryEscape(north.ID), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var list []handler.PlaceResponse
	s.decodeEnvelope(resp, &list)
	s.Equal([]handler.PlaceResponse{harbor}, list)
}

func (s *DocumentAPISuite) TestUserRegistrationAndViews() {
	north := s.createDistrict("North")
	harbor := s.createPlace("Harbor", north.ID)

	resp := s.register(map[string]string{
		"full_name": "Ada",
		"email":     "ada@example.com",
		"password":  "secret",
		"place_id":  harbor.ID,
	}, "../ada.png", []byte("png-bytes"))
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	s.decodeEnvelope(resp, &created)

	stored, err := afero.ReadFile(s.fs, "uploads/users/ada.png")
	s.Require().NoError(err)
	s.Equal([]byte("png-bytes"), stored)

	resp = s.makeRequest(http.MethodGet, "/users/"+created.ID, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var view map[string]any
	s.decodeEnvelope(resp, &view)
	s.Equal("Ada", view["full_name"])
	s.Equal("Harbor", view["place_name"])
	s.Equal("North", view["district_name"])
	s.Equal("active", view["status"])
	s.Equal("uploads/users/ada.png", view["photo"])
	s.NotContains(view, "password")

	resp = s.makeRequest(http.MethodGet, "/users/", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var views []map[string]any
	s.decodeEnvelope(resp, &views)
	s.Len(views, 1)

	resp = s.makeRequest(http.MethodGet, "/users/424242", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *DocumentAPISuite) TestDuplicateEmailRejected() {
	north := s.createDistrict("North")
	harbor := s.createPlace("Harbor", north.ID)
	s.registerUser("Ada", "ada@example.com", "secret", harbor.ID)

	resp := s.register(map[string]string{
		"full_name": "Ada Two",
		"email":     "ada@example.com",
		"password":  "other",
		"place_id":  harbor.ID,
	}, "", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest(http.MethodGet, "/users/", nil)
	var views []map[string]any
	s.decodeEnvelope(resp, &views)
	s.Len(views, 1)
}

func (s *DocumentAPISuite) TestRegistrationRequiresFields() {
	resp := s.register(map[string]string{"full_name": "Ada"}, "", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *DocumentAPISuite) TestLoginAndPasswordChange() {
	north := s.createDistrict("North")
	harbor := s.createPlace("Harbor", north.ID)
	id := s.registerUser("Ada", "ada@example.com", "secret", harbor.ID)

	resp := s.makeRequest(http.MethodPost, "/login", handler.LoginRequest{Email: "ada@example.com", Password: "secret"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var profile handler.LoginResponse
	env := s.decodeEnvelope(resp, &profile)
	s.Equal("Login successful", env.Message)
	s.Equal(handler.LoginResponse{ID: id, FullName: "Ada", Email: "ada@example.com", Status: "active"}, profile)

	resp = s.makeRequest(http.MethodPost, "/login", handler.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest(http.MethodPut, "/users/"+id+"/password",
		handler.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "next"})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest(http.MethodPut, "/users/"+id+"/password",
		handler.ChangePasswordRequest{OldPassword: "secret", NewPassword: "next"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest(http.MethodPost, "/login", handler.LoginRequest{Email: "ada@example.com", Password: "secret"})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest(http.MethodPost, "/login", handler.LoginRequest{Email: "ada@example.com", Password: "next"})
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *DocumentAPISuite) TestPartialUpdateKeepsOtherFields() {
	north := s.createDistrict("North")
	harbor := s.createPlace("Harbor", north.ID)
	market := s.createPlace("Market", north.ID)
	id := s.registerUser("Ada", "ada@example.com", "secret", harbor.ID)

	name := "Ada Lovelace"
	resp := s.makeRequest(http.MethodPut, "/users/"+id, handler.UpdateUserRequest{FullName: &name})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var view map[string]any
	env := s.decodeEnvelope(resp, &view)
	s.Equal("User updated", env.Message)
	s.Equal("Ada Lovelace", view["full_name"])
	s.Equal("ada@example.com", view["email"])
	s.Equal(harbor.ID, view["place_id"])

	resp = s.makeRequest(http.MethodPut, "/users/"+id, handler.UpdateUserRequest{PlaceID: &market.ID})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	view = nil
	s.decodeEnvelope(resp, &view)
	s.Equal("Ada Lovelace", view["full_name"])
	s.Equal("Market", view["place_name"])

	missing := "999"
	resp = s.makeRequest(http.MethodPut, "/users/"+id, handler.UpdateUserRequest{PlaceID: &missing})
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *DocumentAPISuite) TestConcurrentDistrictCreates() {
	const n = 10
	var wg sync.WaitGroup
	statuses := make(chan int, n)
	for i := range n {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := s.makeRequest(http.MethodPost, "/district/", handler.DistrictRequest{Name: fmt.Sprintf("D%d", i)})
			resp.Body.Close()
			statuses <- resp.StatusCode
		}(i)
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		s.Equal(http.StatusCreated, status)
	}

	resp := s.makeRequest(http.MethodGet, "/district/", nil)
	var list []handler.DistrictResponse
	s.decodeEnvelope(resp, &list)
	s.Len(list, n)
}

// RelationalAPISuite covers the query-parameter surface.
type RelationalAPISuite struct {
	DirectoryAPIIntegrationTestSuite
}

func TestRelationalAPISuite(t *testing.T) {
	suite.Run(t, &RelationalAPISuite{DirectoryAPIIntegrationTestSuite{backend: config.BackendRelational}})
}

func (s *RelationalAPISuite) post(path string, params url.Values) *http.Response {
	return s.makeRequest(http.MethodPost, path+"?"+params.Encode(), nil)
}

func (s *RelationalAPISuite) TestCreateChain() {
	resp := s.post("/districts", url.Values{"name": {"North"}})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var d handler.DistrictRow
	s.decode(resp, &d)
	s.Equal(handler.DistrictRow{DistrictID: 1, DistrictName: "North"}, d)

	resp = s.post("/places", url.Values{"name": {"Harbor"}, "district_id": {"1"}})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var p handler.PlaceRow
	s.decode(resp, &p)
	s.Equal(handler.PlaceRow{PlaceID: 1, PlaceName: "Harbor", DistrictID: 1}, p)

	resp = s.post("/users", url.Values{
		"name":     {"Ada"},
		"email":    {"ada@example.com"},
		"password": {"secret"},
		"place_id": {"1"},
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var u handler.UserRow
	s.decode(resp, &u)
	s.Equal(handler.UserRow{UserID: 1, UserName: "Ada", UserEmail: "ada@example.com", UserPassword: "secret", PlaceID: 1}, u)

	resp = s.makeRequest(http.MethodGet, "/users", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var rows []handler.UserRow
	s.decode(resp, &rows)
	s.Equal([]handler.UserRow{{UserID: 1, UserName: "Ada", UserEmail: "ada@example.com", UserPassword: "secret", PlaceID: 1}}, rows)
}

func (s *RelationalAPISuite) TestDuplicateEmail() {
	s.Require().Equal(http.StatusOK, s.post("/districts", url.Values{"name": {"North"}}).StatusCode)
	s.Require().Equal(http.StatusOK, s.post("/places", url.Values{"name": {"Harbor"}, "district_id": {"1"}}).StatusCode)

	params := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"x"}, "place_id": {"1"}}
	s.Require().Equal(http.StatusOK, s.post("/users", params).StatusCode)

	resp := s.post("/users", params)
	s.Require().Equal(http.StatusBadRequest, resp.StatusCode)
	var body handler.MessageResponse
	s.decode(resp, &body)
	s.Equal("email exists", body.Message)
}

func (s *RelationalAPISuite) TestPlaceWithUnknownDistrict() {
	resp := s.post("/places", url.Values{"name": {"Harbor"}, "district_id": {"7"}})
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	var count int64
	s.Require().NoError(s.db.Model(&relational.PlaceSchema{}).Count(&count).Error)
	s.Zero(count)
}

func (s *RelationalAPISuite) TestMissingParameters() {
	tests := []struct {
		path   string
		params url.Values
	}{
		{"/districts", url.Values{}},
		{"/places", url.Values{"name": {"Harbor"}}},
		{"/places", url.Values{"name": {"Harbor"}, "district_id": {"one"}}},
		{"/users", url.Values{"name": {"Ada"}, "email": {"a@b.c"}, "password": {"x"}}},
	}

	for _, tt := range tests {
		resp := s.post(tt.path, tt.params)
		s.Equal(http.StatusBadRequest, resp.StatusCode, "%s?%s", tt.path, tt.params.Encode())
		resp.Body.Close()
	}
}

func (s *RelationalAPISuite) TestDocumentRoutesNotMounted() {
	resp := s.makeRequest(http.MethodGet, "/district/", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
