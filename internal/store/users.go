package store

import (
	"context"
	"time"

	"github.com/01moynul/storefront-api/internal/models"
)

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Role   string
	Search string
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.conn(ctx).Create(u).Error, "user")
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

// GetUserByLogin finds a user by email or username.
func (s *Store) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var u models.User
	err := s.conn(ctx).Where("email = ? OR username = ?", login, login).First(&u).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

// UserTaken reports whether the username or email is already registered by a user other than exceptID.
func (s *Store) UserTaken(ctx context.Context, username, email string, exceptID uint) (bool, error) {
	var n int64
	q := s.conn(ctx).Model(&models.User{}).Where("(username = ? OR email = ?)", username, email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) ListUsers(ctx context.Context, f UserFilter, p Pagination) (*Page[models.User], error) {
	q := s.conn(ctx).Model(&models.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("username LIKE ? OR email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like, like)
	}
	page, err := paginate[models.User](q, p, "id ASC")
	return page, translate(err, "user")
}

// UpdateUser writes the given columns. Map updates are used so false and "" are persisted.
func (s *Store) UpdateUser(ctx context.Context, u *models.User, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(s.conn(ctx).Model(u).Updates(fields).Error, "user")
}

func (s *Store) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return translate(s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", at).Error, "user")
}

func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return translate(errNotFound, "user")
	}
	return nil
}

func (s *Store) CountOrdersByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Order{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
