package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-market-backend/internal/models"
	"github.com/ignatzorin/freelance-market-backend/internal/repository/common"
)

// Ошибки уровня репозитория отзывов.
var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already exists for this contract and author")
)

// ReviewRepository отвечает за работу с отзывами.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository создаёт новый экземпляр.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет отзыв. Пара (contract_id, reviewer_id) уникальна.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (contract_id, reviewer_id, reviewed_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		review.ContractID, review.ReviewerID, review.ReviewedID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if common.IsUniqueViolation(err, "reviews_contract_id_reviewer_id_key") {
			return ErrReviewExists
		}
		return fmt.Errorf("review repository: create %w", err)
	}
	return nil
}

// GetByContractAndReviewer проверяет, оставлял ли участник отзыв на контракт.
func (r *ReviewRepository) GetByContractAndReviewer(ctx context.Context, contractID, reviewerID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review,
		`SELECT * FROM reviews WHERE contract_id = $1 AND reviewer_id = $2`, contractID, reviewerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("review repository: get by contract and reviewer %w", err)
	}
	return &review, nil
}

// ListByReviewedID возвращает отзывы о пользователе, новые первыми.
func (r *ReviewRepository) ListByReviewedID(ctx context.Context, reviewedID uuid.UUID, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT * FROM reviews WHERE reviewed_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, reviewedID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("review repository: list by reviewed %w", err)
	}
	return reviews, nil
}
