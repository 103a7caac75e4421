package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-market-backend/internal/dto"
	"github.com/ignatzorin/freelance-market-backend/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-market-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-market-backend/internal/service"
)

// ReviewHandler предоставляет HTTP слой для отзывов.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler создаёт хэндлер.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Create обрабатывает POST /api/reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	var req dto.CreateReviewRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.AbortWithError(c, err)
		return
	}

	contractID, err := uuid.Parse(req.ContractID)
	if err != nil {
		common.AbortWithError(c, apperror.New(apperror.ErrCodeInvalidRequest, "contract_id должен быть валидным UUID"))
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), contractID, userID, req.Rating, req.Comment)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListForUser обрабатывает GET /api/users/:id/reviews.
func (h *ReviewHandler) ListForUser(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	limit, offset := common.GetPagination(c)

	reviews, err := h.reviews.ListUserReviews(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}
