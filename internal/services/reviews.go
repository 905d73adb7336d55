package services

import (
	"context"

	"github.com/01moynul/storefront-api/internal/apperror"
	"github.com/01moynul/storefront-api/internal/models"
	"github.com/01moynul/storefront-api/internal/store"
	"go.uber.org/zap"
)

type CreateReviewInput struct {
	ProductID uint
	UserID    uint
	Rating    int
	Comment   string
}

// UpdateReviewInput carries the editable fields. Nil fields are left alone.
type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

// ProductReviews is a page of one product's reviews plus its rating summary.
type ProductReviews struct {
	Reviews *store.Page[models.Review] `json:"reviews"`
	Summary models.RatingSummary       `json:"summary"`
}

type ReviewService struct {
	store *store.Store
	log   *zap.Logger
}

func validRating(r int) bool {
	return r >= 1 && r <= 5
}

// CreateReview records a user's single review of a product and refreshes the product's rating.
func (s *ReviewService) CreateReview(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	if !validRating(in.Rating) {
		return nil, apperror.Validation("rating must be between 1 and 5").
			WithDetails(fieldErrors{"rating": "rating must be between 1 and 5"})
	}

	var reviewID uint
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		// 1. --- Check User & Product ---
		if _, err := tx.GetUser(ctx, in.UserID); err != nil {
			return err
		}
		if _, err := tx.GetProduct(ctx, in.ProductID); err != nil {
			return err
		}

		// 2. --- One Review per User per Product ---
		exists, err := tx.ReviewExists(ctx, in.ProductID, in.UserID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.Conflict("you have already reviewed this product")
		}

		// 3. --- Verified Purchase ---
		verified, err := tx.HasPurchased(ctx, in.UserID, in.ProductID)
		if err != nil {
			return err
		}

		// 4. --- Insert & Recompute ---
		review := &models.Review{
			ProductID:          in.ProductID,
			UserID:             in.UserID,
			Rating:             in.Rating,
			Comment:            in.Comment,
			IsVerifiedPurchase: verified,
		}
		if err := tx.CreateReview(ctx, review); err != nil {
			return err
		}
		reviewID = review.ID
		return refreshRating(ctx, tx, in.ProductID)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("review created", zap.Uint("review_id", reviewID), zap.Uint("product_id", in.ProductID))
	return s.store.GetReview(ctx, reviewID)
}

// UpdateReview edits rating or comment. Only the author or an admin may do it.
func (s *ReviewService) UpdateReview(ctx context.Context, actor Actor, reviewID uint, in UpdateReviewInput) (*models.Review, error) {
	if in.Rating != nil && !validRating(*in.Rating) {
		return nil, apperror.Validation("rating must be between 1 and 5").
			WithDetails(fieldErrors{"rating": "rating must be between 1 and 5"})
	}

	err := s.store.Tx(ctx, func(tx *store.Store) error {
		review, err := tx.GetReview(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.UserID != actor.UserID && !actor.IsAdmin() {
			return apperror.Authorization("you can only edit your own reviews")
		}

		fields := map[string]interface{}{}
		if in.Rating != nil {
			fields["rating"] = *in.Rating
		}
		if in.Comment != nil {
			fields["comment"] = *in.Comment
		}
		if err := tx.UpdateReview(ctx, review, fields); err != nil {
			return err
		}
		return refreshRating(ctx, tx, review.ProductID)
	})
	if err != nil {
		return nil, err
	}
	return s.store.GetReview(ctx, reviewID)
}

// DeleteReview removes a review. Only the author or an admin may do it.
func (s *ReviewService) DeleteReview(ctx context.Context, actor Actor, reviewID uint) error {
	return s.store.Tx(ctx, func(tx *store.Store) error {
		review, err := tx.GetReview(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.UserID != actor.UserID && !actor.IsAdmin() {
			return apperror.Authorization("you can only delete your own reviews")
		}
		if err := tx.DeleteReview(ctx, reviewID); err != nil {
			return err
		}
		return refreshRating(ctx, tx, review.ProductID)
	})
}

// refreshRating rescans the product's reviews and stores average and count on the product.
func refreshRating(ctx context.Context, tx *store.Store, productID uint) error {
	avg, count, err := tx.RatingAggregate(ctx, productID)
	if err != nil {
		return err
	}
	return tx.SetProductRating(ctx, productID, avg, count)
}

func (s *ReviewService) GetReview(ctx context.Context, reviewID uint) (*models.Review, error) {
	return s.store.GetReview(ctx, reviewID)
}

func (s *ReviewService) ListReviews(ctx context.Context, f store.ReviewFilter, p store.Pagination) (*store.Page[models.Review], error) {
	if f.Rating != 0 && !validRating(f.Rating) {
		return nil, apperror.Validation("rating must be between 1 and 5")
	}
	return s.store.ListReviews(ctx, f, p)
}

// ForProduct lists a product's reviews with its average, count and per-star distribution.
func (s *ReviewService) ForProduct(ctx context.Context, productID uint, p store.Pagination) (*ProductReviews, error) {
	product, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	page, err := s.store.ListReviews(ctx, store.ReviewFilter{ProductID: productID}, p)
	if err != nil {
		return nil, err
	}
	dist, err := s.store.RatingDistribution(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductReviews{
		Reviews: page,
		Summary: models.RatingSummary{
			AverageRating: product.AverageRating,
			ReviewCount:   int64(product.ReviewCount),
			Distribution:  dist,
		},
	}, nil
}
