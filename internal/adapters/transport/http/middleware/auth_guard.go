package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/model"
)

const ctxPayload = "auth.payload"

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.Payload, error)
}

// AuthGuard requires a valid "Authorization: Bearer <access token>" header.
func AuthGuard(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}

		payload, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxPayload, payload)
		c.Next()
	}
}

func PayloadFrom(c *gin.Context) (model.Payload, bool) {
	v, ok := c.Get(ctxPayload)
	if !ok {
		return model.Payload{}, false
	}
	p, ok := v.(model.Payload)
	return p, ok
}
