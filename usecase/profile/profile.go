package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

// UseCase resolves local user records. Every task operation's caller uses
// GetByUsername to answer "who is asking"; absence is a hard failure there.
type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

func (uc *UseCase) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return uc.users.GetByUsername(ctx, username)
}

func (uc *UseCase) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

// FindByUsername mirrors GetByUsername but reports absence as a nil user
// instead of an error, for callers probing before provisioning.
func (uc *UseCase) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// FindByEmail is the email-keyed counterpart of FindByUsername.
func (uc *UseCase) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
