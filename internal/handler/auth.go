package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/viktorgrom84/trading-notes/internal/auth"
	"github.com/viktorgrom84/trading-notes/internal/models"
	"github.com/viktorgrom84/trading-notes/internal/repository"
)

type AuthHandler struct {
	Repo repository.Repository
	JWT  auth.JWT
	Log  *zap.Logger
}

func (h *AuthHandler) Register(r *gin.Engine) {
	g := r.Group("/api/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userView  `json:"user"`
}

type userView struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *AuthHandler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 3 {
		Error(c, http.StatusBadRequest, "username must be at least 3 characters", nil)
		return
	}
	if len(req.Password) < 6 {
		Error(c, http.StatusBadRequest, "password must be at least 6 characters", nil)
		return
	}

	existing, err := h.Repo.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}
	if existing != nil {
		Error(c, http.StatusConflict, "username already taken", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		Error(c, http.StatusInternalServerError, "password hashing failed", nil)
		return
	}
	user := &models.User{Username: req.Username, PasswordHash: hash}
	if err := h.Repo.CreateUser(c.Request.Context(), user); err != nil {
		h.Log.Error("create user", zap.String("username", req.Username), zap.Error(err))
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}

	h.issueToken(c, user, http.StatusCreated)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	user, err := h.Repo.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}
	// Same answer for unknown user and wrong password.
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	h.issueToken(c, user, http.StatusOK)
}

func (h *AuthHandler) issueToken(c *gin.Context, user *models.User, status int) {
	token, expiresAt, err := h.JWT.Sign(auth.Claims{UserID: user.ID, Username: user.Username})
	if err != nil {
		h.Log.Error("sign token", zap.Uint64("user_id", user.ID), zap.Error(err))
		Error(c, http.StatusInternalServerError, "token signing failed", nil)
		return
	}
	resp := authResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      userView{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt},
	}
	if status == http.StatusCreated {
		Created(c, resp)
		return
	}
	Ok(c, resp, nil)
}
