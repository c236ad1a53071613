package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/bug_tracker/internal/logging"
	"github.com/Skotchmaster/bug_tracker/internal/models"
	"github.com/Skotchmaster/bug_tracker/internal/mykafka"
	"github.com/Skotchmaster/bug_tracker/internal/repo"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

type UserInput struct {
	Username string
	Email    string
	Role     string
	Password string
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.create")

	norm, role, err := RegisterInput(in).normalize()
	if err != nil {
		return nil, err
	}
	if err := checkAvailable(ctx, s.Repo, norm.Username, norm.Email); err != nil {
		return nil, err
	}

	pwHash, err := hashPassword(norm.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Username: norm.Username, Email: norm.Email, PasswordHash: pwHash, Role: role}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, user.Username, map[string]any{
		"type":    "user_created",
		"user_id": user.ID,
		"role":    user.Role,
	})
	l.Info("user_created", "user_id", user.ID)
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// Update replaces username, email and role. The password is re-hashed only
// when a new one is supplied. A role change reaches the user's tokens on
// their next refresh.
func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.update", "user_id", id)

	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email required", ErrValidation)
	}

	if username != user.Username {
		taken, err := s.Repo.UsernameExists(ctx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: username already exists", ErrConflict)
		}
	}
	if email != user.Email {
		taken, err := s.Repo.EmailExists(ctx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: email already exists", ErrConflict)
		}
	}

	if strings.TrimSpace(in.Role) != "" {
		role, ok := models.ParseRole(in.Role)
		if !ok {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, in.Role)
		}
		user.Role = role
	}
	if in.Password != "" {
		pwHash, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}
	user.Username = username
	user.Email = email

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, user.Username, map[string]any{
		"type":    "user_updated",
		"user_id": user.ID,
		"role":    user.Role,
	})
	l.Info("user_updated", "role", user.Role)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return inUse(err)
	}
	publish(ctx, s.Events, mykafka.TopicUserEvents, fmt.Sprint(id), map[string]any{
		"type":    "user_deleted",
		"user_id": id,
	})
	logging.FromContext(ctx).Info("user_deleted", "user_id", id)
	return nil
}
