package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/catalog-service/catalog/internal/errs"
	"github.com/Astemirdum/catalog-service/catalog/internal/model"
)

func (s *Service) GetUser(ctx context.Context, id int) (model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.User{}, errs.ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, errs.ErrInvalidCredentials
	}
	return user, nil
}

// EnsureSuperuser creates or resets the bootstrap admin account.
// An empty username disables the bootstrap.
func (s *Service) EnsureSuperuser(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}
	if password == "" {
		return errors.New("superuser password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err = s.repo.UpsertSuperuser(ctx, username, string(hash)); err != nil {
		return err
	}
	s.log.Info("superuser ensured", zap.String("username", username))
	return nil
}
