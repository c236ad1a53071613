package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/bug_tracker/internal/hash"
	"github.com/Skotchmaster/bug_tracker/internal/logging"
	"github.com/Skotchmaster/bug_tracker/internal/models"
	"github.com/Skotchmaster/bug_tracker/internal/mykafka"
	"github.com/Skotchmaster/bug_tracker/internal/repo"
	"github.com/Skotchmaster/bug_tracker/internal/tokens"
)

type AuthService struct {
	Users  CredentialStore
	Ledger RevocationLedger
	Codec  *tokens.Codec
	Events EventPublisher

	// CheckRevokedOnRefresh rejects refresh tokens that were handed to Logout.
	CheckRevokedOnRefresh bool
}

type RegisterInput struct {
	Username string
	Email    string
	Role     string
	Password string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

type AccessResult struct {
	AccessToken string
	AccessExp   time.Time
}

func (in RegisterInput) normalize() (RegisterInput, models.Role, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" {
		return in, "", fmt.Errorf("%w: username required", ErrValidation)
	}
	if in.Email == "" {
		return in, "", fmt.Errorf("%w: email required", ErrValidation)
	}
	if in.Password == "" {
		return in, "", fmt.Errorf("%w: password required", ErrValidation)
	}

	role := models.RoleUser
	if strings.TrimSpace(in.Role) != "" {
		r, ok := models.ParseRole(in.Role)
		if !ok {
			return in, "", fmt.Errorf("%w: unknown role %q", ErrValidation, in.Role)
		}
		role = r
	}
	return in, role, nil
}

// checkAvailable reports ErrConflict when the username or email is already taken.
func checkAvailable(ctx context.Context, users CredentialStore, username, email string) error {
	taken, err := users.UsernameExists(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: username already exists", ErrConflict)
	}

	taken, err = users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: email already exists", ErrConflict)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	in, role, err := in.normalize()
	if err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return nil, err
	}
	l = l.With("username", in.Username)

	if err := checkAvailable(ctx, s.Users, in.Username, in.Email); err != nil {
		if errors.Is(err, ErrConflict) {
			l.Warn("register_error", "status", 400, "error", err)
		} else {
			l.Error("register_error", "status", 500, "error", err)
		}
		return nil, err
	}

	pwHash, err := hashPassword(in.Password)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			l.Warn("register_error", "status", 400, "error", err)
		} else {
			l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		}
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "status", 400, "reason", "concurrent insert", "error", err)
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicUserEvents, user.Username, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})

	l.Info("register_success", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hash.CheckAgainstDummy(password)
			l.Warn("login_failed", "status", 401, "reason", "unknown user")
			return nil, ErrUnauthorized
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrUnauthorized
	}

	access, accessExp, err := s.Codec.Issue(user.Username, user.Role.String(), tokens.KindAccess)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	refresh, refreshExp, err := s.Codec.Issue(user.Username, user.Role.String(), tokens.KindRefresh)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("login_success", "role", user.Role)
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// Logout revokes whichever of the two strings is non-empty. Neither is
// verified first, so garbage is revoked as readily as a live token.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	for _, tok := range []string{accessToken, refreshToken} {
		if tok == "" {
			continue
		}
		if err := s.Ledger.Revoke(ctx, tok); err != nil {
			l.Error("logout_failed", "status", 500, "error", err)
			return err
		}
	}

	l.Info("logout_success", "access", accessToken != "", "refresh", refreshToken != "")
	return nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AccessResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if refreshToken == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "missing token")
		return nil, ErrUnauthorized
	}

	claims, err := s.Codec.Verify(refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Kind != tokens.KindRefresh {
		l.Warn("refresh_failed", "status", 401, "reason", "not a refresh token")
		return nil, fmt.Errorf("%w: not a refresh token", ErrUnauthorized)
	}

	if s.CheckRevokedOnRefresh {
		revoked, err := s.Ledger.IsRevoked(ctx, refreshToken)
		if err != nil {
			l.Error("refresh_failed", "status", 500, "error", err)
			return nil, err
		}
		if revoked {
			l.Warn("refresh_failed", "status", 401, "reason", "revoked")
			return nil, fmt.Errorf("%w: token revoked", ErrUnauthorized)
		}
	}

	user, err := s.Users.FindUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh_failed", "status", 401, "reason", "user not found", "username", claims.Subject)
			return nil, fmt.Errorf("%w: user not found", ErrUnauthorized)
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	access, exp, err := s.Codec.Issue(user.Username, user.Role.String(), tokens.KindAccess)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("refresh_success", "username", user.Username, "role", user.Role)
	return &AccessResult{AccessToken: access, AccessExp: exp}, nil
}
