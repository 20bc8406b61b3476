package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	customErrors "github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/errors"
	jwt2 "github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/infra/config"
)

type JwtUtilImpl struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	now        func() time.Time
}

func NewJWTUtil(cfg *config.Config) (*JwtUtilImpl, error) {
	if cfg.JWTSecret == "" {
		return nil, customErrors.WrapInternal(errors.New("empty secret"), "NewJWTUtil")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, customErrors.WrapInternal(errors.New("non-positive ttl"), "NewJWTUtil")
	}
	return &JwtUtilImpl{
		secret:     []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}, nil
}

// WithClock swaps the time source used for both issuing and verifying.
func (j *JwtUtilImpl) WithClock(now func() time.Time) *JwtUtilImpl {
	j.now = now
	return j
}

func (j *JwtUtilImpl) TTL(kind model.TokenKind) time.Duration {
	if kind == model.RefreshToken {
		return j.refreshTTL
	}
	return j.accessTTL
}

func (j *JwtUtilImpl) Issue(payload model.Payload, kind model.TokenKind) (string, time.Time, error) {
	if kind != model.AccessToken && kind != model.RefreshToken {
		return "", time.Time{}, customErrors.NewInvalidArgument("unknown token kind " + string(kind))
	}

	now := j.now()
	claims := jwt2.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.UserID.String(),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL(kind))),
			ID:        uuid.NewString(),
		},
		UserID: payload.UserID.String(),
		Role:   payload.Role,
		Kind:   kind,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign "+string(kind)+" token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

func (j *JwtUtilImpl) Verify(raw string) (jwt2.Verified, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &jwt2.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return j.secret, nil
	}, opts...)

	if err != nil || !token.Valid {
		return jwt2.Verified{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt2.Claims)
	if !ok {
		return jwt2.Verified{}, customErrors.ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil || claims.Subject != claims.UserID {
		return jwt2.Verified{}, customErrors.ErrInvalidToken
	}
	if claims.Kind != model.AccessToken && claims.Kind != model.RefreshToken {
		return jwt2.Verified{}, customErrors.ErrInvalidToken
	}

	return jwt2.Verified{
		Payload:   model.Payload{UserID: uid, Role: claims.Role},
		Kind:      claims.Kind,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
