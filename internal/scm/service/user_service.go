package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/scm/internal/scm/entity"
	"github.com/bitfantasy/scm/internal/scm/repository"
)

type UserService struct {
	repo  *repository.UserRepository
	audit *AuditService
}

func NewUserService(repo *repository.UserRepository, audit *AuditService) *UserService {
	return &UserService{repo: repo, audit: audit}
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user "+id)
	}
	return user, nil
}

// SetActive toggles a user's access without deleting the account.
func (s *UserService) SetActive(ctx context.Context, id string, active bool, actorID string) (*entity.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user "+id)
	}
	user.Active = active
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.audit.Record(ctx, "UPDATE_USER", "User", user.ID, actorID)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string, actorID string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return notFoundOr(err, "user "+id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.audit.Record(ctx, "DELETE_USER", "User", id, actorID)
	return nil
}
