// Package store is the entity access layer: typed reads and writes per table on top of GORM.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL server error numbers we classify.
const (
	mysqlDuplicateEntry      = 1062
	mysqlRowIsReferenced     = 1451
	mysqlNoReferencedRow     = 1452
	mysqlCheckConstraintFail = 3819
)

var errNotFound = gorm.ErrRecordNotFound

// Store wraps either the root connection pool or an open transaction.
// Every method works the same way on both.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks and migrations.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Tx runs fn inside one transaction. Any returned error rolls everything back.
func (s *Store) Tx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate maps driver and ORM errors onto application error kinds.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("%s not found", entity)
	}
	if IsDuplicate(err) {
		return apperror.Conflict("%s already exists", entity).WithDetails(err.Error())
	}
	if IsReferenced(err) {
		return apperror.Conflict("%s is referenced by other records", entity)
	}
	if IsCheckViolation(err) {
		return apperror.Validation("%s violates a data constraint", entity)
	}
	return fmt.Errorf("%s: %w", entity, err)
}

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsReferenced reports whether err is a foreign key violation.
func IsReferenced(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && (myErr.Number == mysqlRowIsReferenced || myErr.Number == mysqlNoReferencedRow) {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsCheckViolation reports whether err is a CHECK constraint violation.
func IsCheckViolation(err error) bool {
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlCheckConstraintFail {
		return true
	}
	return strings.Contains(err.Error(), "CHECK constraint failed")
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is the page request of a list endpoint.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps the page to sane bounds.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of results plus the totals needed to render paging controls.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// paginate counts the filtered query then loads one page into a fresh slice.
// Preloads are applied to the page query only, GORM refuses them on Count.
func paginate[T any](q *gorm.DB, p Pagination, order string, preloads ...string) (*Page[T], error) {
	p = p.Normalize()

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	items := make([]T, 0, p.Limit)
	pageQuery := q.Session(&gorm.Session{})
	for _, assoc := range preloads {
		pageQuery = pageQuery.Preload(assoc)
	}
	if err := pageQuery.Order(order).Limit(p.Limit).Offset(p.Offset()).Find(&items).Error; err != nil {
		return nil, err
	}

	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return &Page[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}, nil
}
