package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/model"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID string          `json:"user_id"`
	Role   model.Role      `json:"role"`
	Kind   model.TokenKind `json:"typ"`
}

type JWTUtil interface {
	Issue(payload model.Payload, kind model.TokenKind) (token string, exp time.Time, err error)
	Verify(token string) (Verified, error)
	TTL(kind model.TokenKind) time.Duration
}

// Verified is the decoded view of a token that passed signature and expiry checks.
type Verified struct {
	Payload   model.Payload
	Kind      model.TokenKind
	ExpiresAt time.Time
	ID        string
}
