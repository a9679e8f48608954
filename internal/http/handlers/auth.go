package handlers

import (
	"net/http"

	"taskmanager/internal/logger"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	// JSON or form, chosen by Content-Type
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.WithContext(c.Request.Context()).Info("login failed",
			"username", req.Username,
			"client_ip", c.ClientIP(),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, token)
}
