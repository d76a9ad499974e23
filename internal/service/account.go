package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/internal/models"
	"github.com/SaladDann/SIGECOB/internal/notify"
	"github.com/SaladDann/SIGECOB/internal/repo"
	"github.com/SaladDann/SIGECOB/pkg/hash"
	"github.com/SaladDann/SIGECOB/pkg/logging"
	"github.com/SaladDann/SIGECOB/pkg/tokens"
)

const (
	DefaultTokenTTL   = time.Hour
	minPasswordLength = 6
)

type AccountService struct {
	Repo      *repo.GormRepo
	Effects   *Effects
	JWTSecret []byte
	TokenTTL  time.Duration
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Address  string
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

// newUser validates the credentials and hashes the password.
func newUser(in RegisterInput, role domain.Role) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, domain.MissingField("email")
	}
	if in.Password == "" {
		return nil, domain.MissingField("password")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must have at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w: %w", domain.ErrPersistence, err)
	}
	return &models.User{
		Email:        email,
		PasswordHash: pwHash,
		FullName:     strings.TrimSpace(in.FullName),
		Address:      strings.TrimSpace(in.Address),
		Role:         role,
	}, nil
}

// createUser stores the user with an empty cart; a taken email is a Conflict.
func createUser(ctx context.Context, r *repo.GormRepo, user *models.User) error {
	if err := r.CreateUserWithCart(ctx, user); err != nil {
		err = translate("create user", err)
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput, ip string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "account.register")

	user, err := newUser(in, domain.RoleUser)
	if err != nil {
		if domain.KindOf(err) == domain.KindPersistenceFailure {
			l.Error("register_error", "error", err)
		}
		return nil, err
	}
	if err := createUser(ctx, s.Repo, user); err != nil {
		return nil, err
	}

	s.Effects.audit(ctx, "USER_REGISTERED", notify.Entry{
		UserID:   uintPtr(user.ID),
		Entity:   "User",
		EntityID: strconv.FormatUint(uint64(user.ID), 10),
		SourceIP: ip,
	})
	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, email, password, ip string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	l := logging.FromContext(ctx).With("svc", "account.login", "email", email)

	if email == "" || password == "" {
		return nil, domain.MissingField("email and password")
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate("find user", err)
	}
	if err != nil || !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "invalid credentials")
		s.Effects.audit(ctx, "LOGIN_FAILED", notify.Entry{Entity: "User", Details: map[string]any{"email": email}, SourceIP: ip})
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	exp := time.Now().Add(ttl)
	token, err := tokens.NewAccessToken(user.ID, string(user.Role), exp, s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w: %w", domain.ErrPersistence, err)
	}

	s.Effects.audit(ctx, "USER_LOGIN", notify.Entry{
		UserID:   uintPtr(user.ID),
		Entity:   "User",
		EntityID: strconv.FormatUint(uint64(user.ID), 10),
		SourceIP: ip,
	})
	l.Info("login_success", "user_id", user.ID)
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}
