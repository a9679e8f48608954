package handlers

import (
	"net/http"
	"strconv"

	"taskmanager/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteMe removes the account and every task it owns.
func (h *Handler) DeleteMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Auth.DeleteAccount(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Activity lists the caller's recent account events, newest first.
func (h *Handler) Activity(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(c, domain.Validation("limit must be an integer"))
			return
		}
		limit = n
	}

	logs, err := h.Audit.ListForUser(c.Request.Context(), user, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if logs == nil {
		logs = []*domain.AuditLog{}
	}
	c.JSON(http.StatusOK, logs)
}
