package services

import (
	"context"
	"strings"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/store"
	"github.com/gosimple/slug"
)

type CategoryInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}

type CategoryService struct {
	store *store.Store
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if in.Name == nil || blank(*in.Name) {
		return nil, apperror.Validation("name is required").WithDetails(fieldErrors{"name": "name is required"})
	}
	name := strings.TrimSpace(*in.Name)

	category := &models.Category{
		Name:     name,
		Slug:     slug.Make(name),
		IsActive: true,
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Get returns the category with the number of products filed under it.
func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category.ProductCount, err = s.store.CountProductsInCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	return s.store.ListCategories(ctx, activeOnly)
}

// Update renames (re-deriving the slug), re-describes or toggles a category.
func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		if blank(*in.Name) {
			return nil, apperror.Validation("name cannot be empty")
		}
		name := strings.TrimSpace(*in.Name)
		fields["name"] = name
		fields["slug"] = slug.Make(name)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if err := s.store.UpdateCategory(ctx, category, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a category. Its products stay, uncategorized.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.store.Tx(ctx, func(tx *store.Store) error {
		if _, err := tx.GetCategory(ctx, id); err != nil {
			return err
		}
		if err := tx.DetachCategory(ctx, id); err != nil {
			return err
		}
		return tx.DeleteCategory(ctx, id)
	})
}
