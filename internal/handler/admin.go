package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/viktorgrom84/trading-notes/internal/auth"
	"github.com/viktorgrom84/trading-notes/internal/repository"
)

type AdminHandler struct {
	Repo repository.Repository
	Log  *zap.Logger

	AdminUsername string
}

func (h *AdminHandler) Register(r *gin.Engine, mw ...gin.HandlerFunc) {
	g := r.Group("/api/admin", mw...)
	g.Use(requireAdmin(h.AdminUsername))
	g.GET("/users", h.listUsers)
	g.DELETE("/users/:id", h.deleteUser)
}

func (h *AdminHandler) listUsers(c *gin.Context) {
	users, err := h.Repo.ListUsers(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt})
	}
	Ok(c, views, nil)
}

func (h *AdminHandler) deleteUser(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	if id == identity.UserID {
		Error(c, http.StatusBadRequest, "cannot delete your own account", nil)
		return
	}
	deleted, err := h.Repo.DeleteUser(c.Request.Context(), id)
	if err != nil {
		h.Log.Error("delete user", zap.Uint64("target_id", id), zap.Error(err))
		Error(c, http.StatusInternalServerError, "storage error", nil)
		return
	}
	if !deleted {
		Error(c, http.StatusNotFound, "user not found", nil)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}
