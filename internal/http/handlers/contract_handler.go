package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-market-backend/internal/dto"
	"github.com/ignatzorin/freelance-market-backend/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-market-backend/internal/service"
)

// ContractHandler предоставляет HTTP слой для контрактов.
type ContractHandler struct {
	contracts *service.ContractService
}

// NewContractHandler создаёт хэндлер.
func NewContractHandler(contracts *service.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// List обрабатывает GET /api/contracts с фильтрами status и role.
func (h *ContractHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	contracts, err := h.contracts.ListContracts(c.Request.Context(), userID, c.Query("status"), c.Query("role"))
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewContractListResponse(contracts))
}

// Get обрабатывает GET /api/contracts/:id.
func (h *ContractHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	details, err := h.contracts.GetContract(c.Request.Context(), contractID, userID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewContractDetailsResponse(details))
}
