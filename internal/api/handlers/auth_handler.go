package handlers

import (
	"net/http"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/api/middleware"
	"github.com/andresuchdata/smart-inventory/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required", err)
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "login failed")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refresh_token is required", err)
		return
	}
	res, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "token refresh failed")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), c.GetString(middleware.UsernameKey))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Validate only runs behind RequireAuth, so reaching it means the token is good.
func (h *AuthHandler) Validate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"username": c.GetString(middleware.UsernameKey),
		"role":     c.GetString(middleware.RoleKey),
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "current, new and confirmation passwords are required", err)
		return
	}
	err := h.auth.ChangePassword(c.Request.Context(), c.GetString(middleware.UsernameKey),
		req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		respondError(c, err, "failed to change password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (h *AuthHandler) UserInfo(c *gin.Context) {
	info, err := h.auth.UserInfo(c.Request.Context(), c.GetString(middleware.UsernameKey))
	if err != nil {
		respondError(c, err, "failed to fetch user info")
		return
	}
	c.JSON(http.StatusOK, info)
}
