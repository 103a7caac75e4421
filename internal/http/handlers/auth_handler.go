package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/freelance-market-backend/internal/dto"
	"github.com/ignatzorin/freelance-market-backend/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-market-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-market-backend/internal/service"
)

// AuthHandler предоставляет HTTP слой для регистрации и аутентификации.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register обрабатывает POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.AbortWithError(c, err)
		return
	}

	input := service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Bio:      req.Bio,
		Skills:   req.Skills,
	}
	if req.HourlyRate != nil {
		rate, err := decimal.NewFromString(*req.HourlyRate)
		if err != nil || !rate.IsPositive() {
			common.AbortWithError(c, apperror.New(apperror.ErrCodeInvalidRequest, "некорректная почасовая ставка"))
			return
		}
		input.HourlyRate = &rate
	}

	result, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAuthResponse(result))
}

// Login обрабатывает POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.AbortWithError(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAuthResponse(result))
}

// Refresh обрабатывает POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.AbortWithError(c, err)
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAuthResponse(result))
}
