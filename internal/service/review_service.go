package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-market-backend/internal/models"
	"github.com/ignatzorin/freelance-market-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-market-backend/internal/repository"
	"github.com/ignatzorin/freelance-market-backend/internal/validation"
)

// ReviewRepo описывает зависимости ReviewService от слоя хранилища.
type ReviewRepo interface {
	Create(ctx context.Context, review *models.Review) error
	GetByContractAndReviewer(ctx context.Context, contractID, reviewerID uuid.UUID) (*models.Review, error)
	ListByReviewedID(ctx context.Context, reviewedID uuid.UUID, limit, offset int) ([]models.Review, error)
}

// ContractRepoForReview — доступ к контрактам из сервиса отзывов.
type ContractRepoForReview interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
}

// UserRepoForReview — проверка существования пользователя.
type UserRepoForReview interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ReviewService управляет взаимными отзывами по завершённым контрактам.
type ReviewService struct {
	reviews   ReviewRepo
	contracts ContractRepoForReview
	users     UserRepoForReview
}

// NewReviewService создаёт сервис отзывов.
func NewReviewService(reviews ReviewRepo, contracts ContractRepoForReview, users UserRepoForReview) *ReviewService {
	return &ReviewService{reviews: reviews, contracts: contracts, users: users}
}

// CreateReview оставляет отзыв по завершённому контракту. Автор должен
// быть участником, отзыв адресуется второй стороне, по одному отзыву
// на автора в рамках контракта.
func (s *ReviewService) CreateReview(ctx context.Context, contractID, authorID uuid.UUID, rating int, comment *string) (*models.Review, error) {
	if err := validation.ValidateRating(rating); err != nil {
		return nil, apperror.New(apperror.ErrCodeInvalidRequest, err.Error())
	}
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if trimmed == "" {
			comment = nil
		} else {
			if err := validation.ValidateLength("комментарий", trimmed, 1, validation.MaxCommentLength); err != nil {
				return nil, apperror.New(apperror.ErrCodeInvalidRequest, err.Error())
			}
			comment = &trimmed
		}
	}

	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, repository.ErrContractNotFound) {
			return nil, apperror.ErrContractNotFound
		}
		return nil, err
	}

	var reviewedID uuid.UUID
	switch authorID {
	case contract.ClientID:
		reviewedID = contract.FreelancerID
	case contract.FreelancerID:
		reviewedID = contract.ClientID
	default:
		return nil, apperror.ErrForbidden
	}

	// Отзывы открываются только после завершения контракта.
	if contract.Status != models.ContractStatusCompleted {
		return nil, apperror.ErrForbidden
	}

	existing, err := s.reviews.GetByContractAndReviewer(ctx, contractID, authorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrAlreadyReviewed
	}

	review := &models.Review{
		ContractID: contractID,
		ReviewerID: authorID,
		ReviewedID: reviewedID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewExists) {
			return nil, apperror.ErrAlreadyReviewed
		}
		return nil, err
	}

	return review, nil
}

// ListUserReviews возвращает отзывы, оставленные о пользователе.
func (s *ReviewService) ListUserReviews(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Review, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.reviews.ListByReviewedID(ctx, userID, limit, offset)
}
