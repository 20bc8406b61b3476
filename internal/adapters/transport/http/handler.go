package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Miraines/MoonyAndStarry/course-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/app/auth/service"
	authErrors "github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/infra/config"
)

const (
	RefreshCookie = "refresh_token"
	cookiePath    = "/auth"

	msgDuplicateEmail = "User with this email already exists! Please login to continue"
	msgInvalidRefresh = "Invalid refresh token"
	msgInvalidBody    = "invalid request body"
)

// Pinger is anything /health should reach before reporting ok.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	svc    service.Service
	cfg    *config.Config
	log    *zap.Logger
	checks map[string]Pinger
}

func NewHandler(svc service.Service, cfg *config.Config, log *zap.Logger, checks map[string]Pinger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, cfg: cfg, log: log, checks: checks}
}

func (h *Handler) Register(c *gin.Context) {
	var body dto.RegisterDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badBody(c, err)
		return
	}

	pair, err := h.svc.Register(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.issueTokens(c, http.StatusCreated, pair)
}

func (h *Handler) Login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badBody(c, err)
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.issueTokens(c, http.StatusOK, pair)
}

func (h *Handler) Refresh(c *gin.Context) {
	pair, err := h.svc.Refresh(c.Request.Context(), dto.RefreshDTO{RefreshToken: h.refreshToken(c)})
	if err != nil {
		if reason := authErrors.RefreshRejection(err); reason != "" {
			h.log.Info("refresh rejected",
				zap.String("reason", reason),
				zap.String("client_ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidRefresh})
			return
		}
		h.handleError(c, err)
		return
	}
	h.issueTokens(c, http.StatusOK, pair)
}

func (h *Handler) Logout(c *gin.Context) {
	err := h.svc.Logout(c.Request.Context(), dto.LogoutDTO{RefreshToken: h.refreshToken(c)})
	h.clearRefreshCookie(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) Profile(c *gin.Context) {
	payload, ok := middleware.PayloadFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	u, err := h.svc.Profile(c.Request.Context(), payload.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.UserResponse{
		ID:               u.ID.String(),
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		Role:             string(u.Role),
		ProfilePictureID: u.ProfilePictureID,
	}})
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.log.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "dependency": name})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
}

// refreshToken reads the refresh cookie; the JSON body is consulted only
// when the deployment opts into it.
func (h *Handler) refreshToken(c *gin.Context) string {
	if v, err := c.Cookie(RefreshCookie); err == nil && v != "" {
		return v
	}
	if h.cfg.RefreshTokenFromBody {
		var body dto.RefreshDTO
		if err := c.ShouldBindJSON(&body); err == nil {
			return body.RefreshToken
		}
	}
	return ""
}

func (h *Handler) issueTokens(c *gin.Context, status int, pair model.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		RefreshCookie,
		pair.RefreshToken,
		int(pair.RefreshTTL.Seconds()),
		cookiePath,
		h.cfg.CookieDomain,
		h.cfg.IsProduction(), // secure
		true,                 // httpOnly
	)

	c.JSON(status, dto.TokenResponse{
		AccessToken: pair.AccessToken,
		ExpiresIn:   int(pair.AccessTTL.Seconds()),
	})
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookie, "", -1, cookiePath, h.cfg.CookieDomain, h.cfg.IsProduction(), true)
}

// badBody hides decoder details from the client.
func (h *Handler) badBody(c *gin.Context, err error) {
	h.log.Debug("bad request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case authErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case authErrors.IsDuplicateEmail(err):
		c.JSON(http.StatusConflict, gin.H{"error": msgDuplicateEmail})
	case authErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case authErrors.IsInvalidToken(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case authErrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
