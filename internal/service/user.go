package service

import (
	"context"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/internal/models"
	"github.com/SaladDann/SIGECOB/internal/notify"
	"github.com/SaladDann/SIGECOB/internal/repo"
	"github.com/SaladDann/SIGECOB/pkg/logging"
)

const bootstrapAdminName = "Administrator"

// UserService is the admin side of account management.
type UserService struct {
	Repo    *repo.GormRepo
	Effects *Effects
}

type CreateUserInput struct {
	RegisterInput
	Role string
}

type UpdateUserInput struct {
	Email    *string
	FullName *string
	Address  *string
	Role     *string
}

type fieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

func (s *UserService) List(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	total, users, err := s.Repo.ListUsers(ctx, offset, limit)
	if err != nil {
		return 0, nil, translate("list users", err)
	}
	return total, users, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, translate("get user", err)
	}
	return u, nil
}

// Create registers a user with any role. The role defaults to User.
func (s *UserService) Create(ctx context.Context, actor Actor, in CreateUserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.create")

	role := domain.RoleUser
	if in.Role != "" {
		r, err := domain.ParseRole(in.Role)
		if err != nil {
			return nil, err
		}
		role = r
	}

	user, err := newUser(in.RegisterInput, role)
	if err == nil {
		err = createUser(ctx, s.Repo, user)
	}
	if err != nil {
		l.Warn("create_user_error", "kind", domain.KindOf(err), "error", err)
		s.Effects.audit(ctx, "ADMIN_CREATE_USER_FAILED", notify.Entry{
			UserID:   uintPtr(actor.UserID),
			Entity:   "User",
			Details:  map[string]any{"email": in.Email, "kind": domain.KindOf(err)},
			SourceIP: actor.IP,
		})
		return nil, err
	}

	s.Effects.audit(ctx, "ADMIN_CREATED_USER", notify.Entry{
		UserID:   uintPtr(actor.UserID),
		Entity:   "User",
		EntityID: strconv.FormatUint(uint64(user.ID), 10),
		Details:  map[string]any{"email": user.Email, "role": user.Role},
		SourceIP: actor.IP,
	})
	l.Info("create_user_success", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Update changes profile fields and the role. Admins cannot change their own role.
func (s *UserService) Update(ctx context.Context, actor Actor, id uint, in UpdateUserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.update", "user_id", id)

	var (
		updated *models.User
		changes = make(map[string]fieldChange)
	)
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cur, err := tx.GetUser(ctx, id)
		if err != nil {
			return err
		}

		fields := make(map[string]any)
		if in.Email != nil {
			email := strings.ToLower(strings.TrimSpace(*in.Email))
			if _, err := mail.ParseAddress(email); err != nil {
				return fmt.Errorf("%w: invalid email", domain.ErrValidation)
			}
			if email != cur.Email {
				fields["email"] = email
				changes["email"] = fieldChange{cur.Email, email}
			}
		}
		if in.FullName != nil {
			if v := strings.TrimSpace(*in.FullName); v != cur.FullName {
				fields["full_name"] = v
				changes["fullName"] = fieldChange{cur.FullName, v}
			}
		}
		if in.Address != nil {
			if v := strings.TrimSpace(*in.Address); v != cur.Address {
				fields["address"] = v
				changes["address"] = fieldChange{cur.Address, v}
			}
		}
		if in.Role != nil {
			role, err := domain.ParseRole(*in.Role)
			if err != nil {
				return err
			}
			if role != cur.Role {
				if cur.ID == actor.UserID {
					return fmt.Errorf("%w: admins cannot change their own role", domain.ErrForbidden)
				}
				fields["role"] = role
				changes["role"] = fieldChange{cur.Role, role}
			}
		}

		if err := tx.UpdateUserFields(ctx, id, fields); err != nil {
			return err
		}
		updated, err = tx.GetUser(ctx, id)
		return err
	})
	if err != nil {
		err = translate("update user", err)
		l.Warn("update_user_error", "kind", domain.KindOf(err), "error", err)
		s.Effects.audit(ctx, "USER_UPDATE_FAILED", notify.Entry{
			UserID:   uintPtr(actor.UserID),
			Entity:   "User",
			EntityID: strconv.FormatUint(uint64(id), 10),
			Details:  map[string]any{"kind": domain.KindOf(err), "error": err.Error()},
			SourceIP: actor.IP,
		})
		return nil, err
	}

	if len(changes) > 0 {
		s.Effects.audit(ctx, "USER_UPDATED", notify.Entry{
			UserID:   uintPtr(actor.UserID),
			Entity:   "User",
			EntityID: strconv.FormatUint(uint64(id), 10),
			Details:  map[string]any{"changes": changes},
			SourceIP: actor.IP,
		})
	}
	l.Info("update_user_success", "changed", len(changes))
	return updated, nil
}

// Delete removes a user without orders or cart lines.
func (s *UserService) Delete(ctx context.Context, actor Actor, id uint) error {
	l := logging.FromContext(ctx).With("svc", "user.delete", "user_id", id)

	var err error
	if id == actor.UserID {
		err = fmt.Errorf("%w: admins cannot delete themselves", domain.ErrForbidden)
	} else {
		err = translate("delete user", s.Repo.DeleteUserWithCart(ctx, id))
	}
	if err != nil {
		l.Warn("delete_user_error", "kind", domain.KindOf(err), "error", err)
		s.Effects.audit(ctx, "USER_DELETE_FAILED", notify.Entry{
			UserID:   uintPtr(actor.UserID),
			Entity:   "User",
			EntityID: strconv.FormatUint(uint64(id), 10),
			Details:  map[string]any{"kind": domain.KindOf(err)},
			SourceIP: actor.IP,
		})
		return err
	}

	s.Effects.audit(ctx, "USER_DELETED", notify.Entry{
		UserID:   uintPtr(actor.UserID),
		Entity:   "User",
		EntityID: strconv.FormatUint(uint64(id), 10),
		SourceIP: actor.IP,
	})
	l.Info("delete_user_success")
	return nil
}

// EnsureAdmin creates the first administrator when none exists yet. It
// reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	l := logging.FromContext(ctx).With("svc", "user.ensure_admin")

	exists, err := s.Repo.HasUserWithRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, translate("find admin", err)
	}
	if exists {
		l.Info("admin_exists")
		return false, nil
	}

	user, err := newUser(RegisterInput{Email: email, Password: password, FullName: bootstrapAdminName}, domain.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := createUser(ctx, s.Repo, user); err != nil {
		return false, err
	}

	s.Effects.audit(ctx, "ADMIN_BOOTSTRAPPED", notify.Entry{
		UserID:   uintPtr(user.ID),
		Entity:   "User",
		EntityID: strconv.FormatUint(uint64(user.ID), 10),
		Details:  map[string]any{"email": user.Email},
	})
	l.Info("admin_created", "user_id", user.ID, "email", user.Email)
	return true, nil
}
