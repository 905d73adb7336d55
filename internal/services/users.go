package services

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/store"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateUserInput holds the admin-editable fields. Nil fields are left alone.
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Role      *string
	IsActive  *bool
}

type UserService struct {
	store *store.Store
	log   *zap.Logger
}

// Register creates an active customer account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	// 1. --- Validate ---
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	errs := fieldErrors{}
	if len(in.Username) < 3 {
		errs.add("username", "username must be at least 3 characters")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		errs.add("email", "email must be a valid address")
	}
	if len(in.Password) < minPasswordLength {
		errs.add("password", "password must be at least 8 characters")
	}
	if len(errs) > 0 {
		return nil, apperror.Validation("invalid registration").WithDetails(errs)
	}

	// 2. --- Uniqueness ---
	taken, err := s.store.UserTaken(ctx, in.Username, in.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict("username or email is already registered")
	}

	// 3. --- Hash the Password ---
	var password models.Password
	if err := password.Set(in.Password); err != nil {
		return nil, apperror.Internal(err, "failed to hash password")
	}

	// 4. --- Save ---
	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: password.Hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         models.RoleCustomer,
		IsActive:     true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Authenticate checks credentials (email or username) and stamps last_login.
func (s *UserService) Authenticate(ctx context.Context, login, plaintext string) (*models.User, error) {
	user, err := s.store.GetUserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Authentication("invalid credentials")
		}
		return nil, err
	}

	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(plaintext)
	if err != nil {
		return nil, apperror.Internal(err, "failed to verify password")
	}
	if !match {
		return nil, apperror.Authentication("invalid credentials")
	}
	if !user.IsActive {
		return nil, apperror.Authentication("account is deactivated")
	}

	now := time.Now()
	if err := s.store.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, f store.UserFilter, p store.Pagination) (*store.Page[models.User], error) {
	if f.Role != "" && !models.ValidRole(f.Role) {
		return nil, apperror.Validation("invalid role %q", f.Role)
	}
	return s.store.ListUsers(ctx, f, p)
}

// UpdateUser edits profile, role and active flag.
func (s *UserService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperror.Validation("email must be a valid address")
		}
		taken, err := s.store.UserTaken(ctx, "", email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.Conflict("email is already registered")
		}
		fields["email"] = email
	}
	if in.FirstName != nil {
		fields["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		fields["last_name"] = *in.LastName
	}
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return nil, apperror.Validation("invalid role %q", *in.Role)
		}
		fields["role"] = *in.Role
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}

	if err := s.store.UpdateUser(ctx, user, fields); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, id)
}

// DeleteUser removes an account that has never ordered. Reviews go with it.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	return s.store.Tx(ctx, func(tx *store.Store) error {
		if _, err := tx.GetUser(ctx, id); err != nil {
			return err
		}
		n, err := tx.CountOrdersByUser(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperror.Conflict("user has %d orders and cannot be deleted, deactivate the account instead", n)
		}
		return tx.DeleteUser(ctx, id)
	})
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	if len(next) < minPasswordLength {
		return apperror.Validation("password must be at least 8 characters")
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return err
	}

	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(current)
	if err != nil {
		return apperror.Internal(err, "failed to verify password")
	}
	if !match {
		return apperror.Authentication("current password is incorrect")
	}

	if err := password.Set(next); err != nil {
		return apperror.Internal(err, "failed to hash password")
	}
	return s.store.UpdateUser(ctx, user, map[string]interface{}{"password_hash": password.Hash})
}
