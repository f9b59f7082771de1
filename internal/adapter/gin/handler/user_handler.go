package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directory-service/internal/usecase/user"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	svc user.Service
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(svc user.Service, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// UpdateUserRequest is a partial update; absent fields stay unchanged
type UpdateUserRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	PlaceID  *string `json:"place_id"`
}

// ChangePasswordRequest is the body of PUT /users/:id/password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the minimal profile returned on successful login
type LoginResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Status   string `json:"status"`
}

// RegisterUser handles POST /users/ (multipart form)
func (h *UserHandler) RegisterUser(c *gin.Context) {
	req := user.CreateUserRequest{
		FullName: c.PostForm("full_name"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		PlaceID:  c.PostForm("place_id"),
	}

	fh, err := c.FormFile("photo")
	switch {
	case err == nil:
		f, err := fh.Open()
		if err != nil {
			respondBadRequest(c, h.log, "Invalid photo upload", err)
			return
		}
		defer f.Close()
		req.Photo = &user.Photo{Filename: fh.Filename, Content: f}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// photo is optional
	default:
		respondBadRequest(c, h.log, "Invalid photo upload", err)
		return
	}

	h.log.Info("Gin RegisterUser request",
		zap.String("email", req.Email),
		zap.String("place_id", req.PlaceID),
		zap.Bool("photo", req.Photo != nil))

	resp, err := h.svc.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{
		Message: "User registered",
		Data:    gin.H{"id": resp.ID},
	})
}

// ListUsers handles GET /users/
func (h *UserHandler) ListUsers(c *gin.Context) {
	views, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Data: views})
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	view, err := h.svc.GetUser(c.Request.Context(), user.GetUserRequest{ID: c.Param("id")})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Data: view})
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, "Invalid request body", err)
		return
	}

	id := c.Param("id")
	h.log.Info("Gin UpdateUser request", zap.String("id", id))

	view, err := h.svc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:       id,
		FullName: req.FullName,
		Email:    req.Email,
		PlaceID:  req.PlaceID,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "User updated", Data: view})
}

// ChangePassword handles PUT /users/:id/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, "Invalid request body", err)
		return
	}

	id := c.Param("id")
	h.log.Info("Gin ChangePassword request", zap.String("id", id))

	err := h.svc.ChangePassword(c.Request.Context(), user.ChangePasswordRequest{
		ID:          id,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Password updated"})
}

// Login handles POST /login
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.log, "Invalid request body", err)
		return
	}

	h.log.Info("Gin Login request", zap.String("email", req.Email))

	resp, err := h.svc.Login(c.Request.Context(), user.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: "Login successful",
		Data: LoginResponse{
			ID:       resp.ID,
			FullName: resp.FullName,
			Email:    resp.Email,
			Status:   resp.Status,
		},
	})
}
