package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/internal/identity"
	"github.com/taskhive/backend/repository"
)

// Provider abstracts the external identity provider so the sign-in flow
// stays testable without network access.
type Provider interface {
	ExchangeCode(ctx context.Context, code string) (*identity.Token, error)
	UserInfo(ctx context.Context, accessToken string) (*identity.UserInfo, error)
	SignOut(ctx context.Context, accessToken string) error
}

// SignInResult bundles everything a successful sign-in produces.
type SignInResult struct {
	Token   *identity.Token `json:"token"`
	User    *domain.User    `json:"user"`
	Session *domain.Session `json:"session"`
}

type UseCase struct {
	provider   Provider
	users      repository.UserRepository
	sessions   repository.SessionRepository
	logger     *zap.Logger
	sessionTTL time.Duration
}

func New(provider Provider, users repository.UserRepository, sessions repository.SessionRepository, sessionTTL time.Duration, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &UseCase{
		provider:   provider,
		users:      users,
		sessions:   sessions,
		logger:     logger,
		sessionTTL: sessionTTL,
	}
}

// SignIn exchanges the authorization code, provisions the local user on
// first sign-in, and opens a cached session. A user is created only when
// neither the username nor the email is already known.
func (uc *UseCase) SignIn(ctx context.Context, code string) (*SignInResult, error) {
	token, err := uc.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	info, err := uc.provider.UserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	user, err := uc.provision(ctx, info)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.Session{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Username:    user.Username,
		AccessToken: token.AccessToken,
		CreatedAt:   now,
		ExpiresAt:   now.Add(uc.sessionTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		uc.logger.Warn("session save failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	return &SignInResult{Token: token, User: user, Session: session}, nil
}

func (uc *UseCase) provision(ctx context.Context, info *identity.UserInfo) (*domain.User, error) {
	username := info.ResolveUsername()

	if user, err := uc.findExisting(ctx, username, info.Email); err != nil {
		return nil, err
	} else if user != nil {
		return user, nil
	}

	user := &domain.User{
		ID:         info.Sub,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
		Username:   username,
		Email:      info.Email,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.logger.Info("user provisioned", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (uc *UseCase) findExisting(ctx context.Context, username, email string) (*domain.User, error) {
	user, err := uc.users.GetByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	user, err = uc.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}
	return nil, nil
}

// Session returns a live session, expiring it lazily. An active session
// has its store TTL bumped so it is not evicted mid-use; ExpiresAt stays
// the hard cap.
func (uc *UseCase) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	remaining := int(time.Until(session.ExpiresAt) / time.Second)
	if remaining > 0 {
		if err := uc.sessions.Extend(ctx, sessionID, remaining); err != nil {
			uc.logger.Warn("session extend failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	return session, nil
}

// Logout revokes the token at the provider and drops the cached session
// when the caller supplies one.
func (uc *UseCase) Logout(ctx context.Context, accessToken, sessionID string) error {
	if err := uc.provider.SignOut(ctx, accessToken); err != nil {
		return err
	}
	if sessionID != "" {
		if err := uc.sessions.Delete(ctx, sessionID); err != nil {
			uc.logger.Warn("session delete failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	return nil
}
