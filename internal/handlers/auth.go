package handlers

import (
	"crypto/subtle"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"seizure-care-server/internal/config"
	"seizure-care-server/internal/models"
	"seizure-care-server/internal/utils"
)

// AuthHandler issues operator tokens.
type AuthHandler struct {
	Cfg *config.Config
	Log zerolog.Logger
	Now func() time.Time
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Log: log, Now: time.Now}
}

// TokenRequest represents the request body for an operator login.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// IssueToken checks the operator credentials and returns a bearer token.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	admin := h.Cfg.Admin
	if admin.PasswordHash == "" {
		h.Log.Warn().Msg("operator login attempted but ADMIN_PASSWORD_HASH is not set")
		utils.Unauthorized(c, "Invalid credentials")
		return
	}
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(admin.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	ttl := time.Duration(h.Cfg.JWTExpirationMinutes) * time.Minute
	token, expiresAt, err := utils.GenerateToken(admin.Username, models.RoleAdmin, h.Cfg.JWTSecret, ttl, h.Now())
	if err != nil {
		h.Log.Error().Err(err).Msg("token signing failed")
		utils.InternalServerError(c, "An unexpected error occurred")
		return
	}
	utils.Success(c, "", gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_at":   expiresAt.UTC().Format(time.RFC3339),
	})
}
