package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Miraines/MoonyAndStarry/course-service/internal/adapters/transport/http/dto"
	customErrors "github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/events"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/model"
	repo "github.com/Miraines/MoonyAndStarry/course-service/internal/domain/auth/repo"
	"github.com/Miraines/MoonyAndStarry/course-service/internal/infra/config"
	lg "github.com/Miraines/MoonyAndStarry/course-service/internal/infra/log"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

const defaultEventTimeout = 2 * time.Second

type authService struct {
	userRepo  repo.UserRepo
	tokenRepo repo.TokenRepo
	jwtUtil   jwt.JWTUtil
	cfg       *config.Config
	v         *validator.Validate
	events    events.Publisher
	log       *zap.Logger
	now       func() time.Time

	eventTimeout time.Duration

	// dummyHash is compared against when the email is unknown, so both
	// login failures cost one argon2id verification.
	dummyHash string
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.TokenPair, error)
	Login(context.Context, dto.LoginDTO) (model.TokenPair, error)
	Refresh(context.Context, dto.RefreshDTO) (model.TokenPair, error)
	Logout(context.Context, dto.LogoutDTO) error
	Authenticate(ctx context.Context, accessToken string) (model.Payload, error)
	Profile(ctx context.Context, userID uuid.UUID) (model.User, error)
}

func New(
	ur repo.UserRepo,
	tr repo.TokenRepo,
	jm jwt.JWTUtil,
	cfg *config.Config,
	v *validator.Validate,
	pub events.Publisher,
	log *zap.Logger,
) (Service, error) {
	dummy, err := argon2id.CreateHash(uuid.NewString()+cfg.PasswordPepper, argonParams)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "dummy hash")
	}
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	eventTimeout := cfg.EventPublishTimeout
	if eventTimeout <= 0 {
		eventTimeout = defaultEventTimeout
	}
	return &authService{
		userRepo: ur, tokenRepo: tr, jwtUtil: jm, cfg: cfg, v: v,
		events: pub, log: log, now: time.Now, dummyHash: dummy,
		eventTimeout: eventTimeout,
	}, nil
}

func (a *authService) Register(ctx context.Context, dto dto.RegisterDTO) (model.TokenPair, error) {
	if err := a.v.Struct(dto); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := argon2id.CreateHash(dto.Password+a.cfg.PasswordPepper, argonParams)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		ID:               uuid.New(),
		FirstName:        dto.FirstName,
		LastName:         dto.LastName,
		Email:            dto.Email,
		PasswordHash:     passwordHash,
		Role:             model.RoleUser,
		ProfilePictureID: model.DefaultProfilePictureID,
	}
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			a.log.Info("register: email taken", lg.Email(user.Email))
			return model.TokenPair{}, customErrors.ErrDuplicateEmail
		}
		return model.TokenPair{}, customErrors.WrapInternal(err, "Register")
	}

	pair, err := a.issueTokens(model.Payload{UserID: user.ID, Role: user.Role})
	if err != nil {
		return model.TokenPair{}, err
	}
	a.publish(ctx, events.UserRegistered, user.ID)
	return pair, nil
}

func (a *authService) Login(ctx context.Context, dto dto.LoginDTO) (model.TokenPair, error) {
	if err := a.v.Struct(dto); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByEmail(ctx, dto.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		_, _ = argon2id.ComparePasswordAndHash(dto.Password+a.cfg.PasswordPepper, a.dummyHash)
		a.log.Info("login failed", lg.Email(dto.Email), zap.String("reason", "unknown email"))
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := argon2id.ComparePasswordAndHash(dto.Password+a.cfg.PasswordPepper, user.PasswordHash)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		a.log.Info("login failed", lg.Email(dto.Email), zap.String("reason", "password mismatch"))
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	pair, err := a.issueTokens(model.Payload{UserID: user.ID, Role: user.Role})
	if err != nil {
		return model.TokenPair{}, err
	}
	a.publish(ctx, events.UserLoggedIn, user.ID)
	return pair, nil
}

// Refresh mints a new pair from a valid refresh token. The presented token is
// not revoked: it stays usable until it expires or the user logs out with it.
func (a *authService) Refresh(ctx context.Context, dto dto.RefreshDTO) (model.TokenPair, error) {
	if dto.RefreshToken == "" {
		return model.TokenPair{}, customErrors.ErrMissingToken
	}

	revoked, err := a.tokenRepo.IsRevoked(ctx, dto.RefreshToken)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Refresh")
	}
	if revoked {
		return model.TokenPair{}, customErrors.ErrRevokedToken
	}

	claims, err := a.jwtUtil.Verify(dto.RefreshToken)
	if err != nil || claims.Kind != model.RefreshToken {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	pair, err := a.issueTokens(claims.Payload)
	if err != nil {
		return model.TokenPair{}, err
	}
	a.publish(ctx, events.SessionRefresh, claims.Payload.UserID)
	return pair, nil
}

// Logout blacklists a verified refresh token for a full refresh lifetime.
// Without a token, or with one that could never be refreshed, there is
// nothing to revoke and the call succeeds.
func (a *authService) Logout(ctx context.Context, dto dto.LogoutDTO) error {
	if dto.RefreshToken == "" {
		return nil
	}

	claims, err := a.jwtUtil.Verify(dto.RefreshToken)
	if err != nil || claims.Kind != model.RefreshToken {
		a.log.Debug("logout: token not revocable, skipping")
		return nil
	}

	if err := a.tokenRepo.Revoke(ctx, dto.RefreshToken, a.jwtUtil.TTL(model.RefreshToken)); err != nil {
		return customErrors.WrapInternal(err, "Logout")
	}

	a.publish(ctx, events.SessionRevoked, claims.Payload.UserID)
	return nil
}

func (a *authService) Authenticate(_ context.Context, accessToken string) (model.Payload, error) {
	if accessToken == "" {
		return model.Payload{}, customErrors.ErrInvalidToken
	}
	claims, err := a.jwtUtil.Verify(accessToken)
	if err != nil || claims.Kind != model.AccessToken {
		return model.Payload{}, customErrors.ErrInvalidToken
	}
	return claims.Payload, nil
}

func (a *authService) Profile(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.userRepo.GetUserByID(ctx, userID)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.User{}, customErrors.ErrNotFound
	case err != nil:
		return model.User{}, customErrors.WrapInternal(err, "Profile")
	}
	user.PasswordHash = ""
	return user, nil
}

func (a *authService) issueTokens(p model.Payload) (model.TokenPair, error) {
	at, _, err := a.jwtUtil.Issue(p, model.AccessToken)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "IssueAccessToken")
	}
	rt, _, err := a.jwtUtil.Issue(p, model.RefreshToken)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "IssueRefreshToken")
	}

	return model.TokenPair{
		AccessToken:  at,
		RefreshToken: rt,
		AccessTTL:    a.jwtUtil.TTL(model.AccessToken),
		RefreshTTL:   a.jwtUtil.TTL(model.RefreshToken),
		UserId:       p.UserID,
	}, nil
}

// publish never holds a session call longer than eventTimeout.
func (a *authService) publish(ctx context.Context, t events.Type, uid uuid.UUID) {
	ctx, cancel := context.WithTimeout(ctx, a.eventTimeout)
	defer cancel()

	e := events.Event{Type: t, UserID: uid, OccurredAt: a.now().UTC()}
	if err := a.events.Publish(ctx, e); err != nil {
		a.log.Warn("publish auth event", zap.String("type", string(t)), zap.Error(err))
	}
}
