package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/iceberg-dashboard/internal/middleware"
	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/service"
	"github.com/jengzang/iceberg-dashboard/pkg/response"
)

// AuthHandler handles HTTP requests for login, signup and logout
type AuthHandler struct {
	authService  *service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		response.BadRequest(c, "Invalid login request")
		return
	}

	res, err := h.authService.Login(c.Request.Context(), creds)
	if err != nil {
		respondError(c, "Login Failed", err)
		return
	}

	h.setSessionCookie(c, res)
	response.Success(c, res, models.InfoNotification("Login Successful", "Welcome back, "+res.User.Username+"!"))
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	res, err := h.authService.Refresh(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		respondError(c, "Session Refresh Failed", err)
		return
	}
	h.setSessionCookie(c, res)
	response.Success(c, res)
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var reg models.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		response.BadRequest(c, "Invalid signup request")
		return
	}

	msg, err := h.authService.Signup(c.Request.Context(), reg)
	if err != nil {
		respondError(c, "Sign Up Failed", err)
		return
	}
	response.Created(c, gin.H{"msg": msg}, models.InfoNotification("Account Created", msg))
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.CurrentSession(c)); err != nil {
		respondError(c, "Logout Failed", err)
		return
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	response.Success(c, nil)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, middleware.CurrentSession(c).User)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, res *service.LoginResponse) {
	maxAge := int(time.Until(res.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, res.Token, maxAge, "/", "", h.secureCookie, true)
}
