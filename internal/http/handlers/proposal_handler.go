package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/freelance-market-backend/internal/dto"
	"github.com/ignatzorin/freelance-market-backend/internal/goroutine"
	"github.com/ignatzorin/freelance-market-backend/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-market-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-market-backend/internal/service"
	"github.com/ignatzorin/freelance-market-backend/internal/ws"
)

// ProposalHandler предоставляет HTTP слой для предложений, включая
// принятие предложения с планом этапов.
type ProposalHandler struct {
	proposals *service.ProposalService
	hub       *ws.Hub
}

// NewProposalHandler создаёт хэндлер.
func NewProposalHandler(proposals *service.ProposalService, hub *ws.Hub) *ProposalHandler {
	return &ProposalHandler{proposals: proposals, hub: hub}
}

// Create обрабатывает POST /api/projects/:id/proposals.
func (h *ProposalHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	var req dto.CreateProposalRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.AbortWithError(c, err)
		return
	}

	price, err := decimal.NewFromString(req.ProposedPrice)
	if err != nil {
		common.AbortWithError(c, apperror.New(apperror.ErrCodeInvalidRequest, "некорректная цена предложения"))
		return
	}

	proposal, err := h.proposals.CreateProposal(c.Request.Context(), service.ProposalInput{
		ProjectID:         projectID,
		FreelancerID:      userID,
		CoverLetter:       req.CoverLetter,
		ProposedPrice:     price,
		EstimatedDuration: req.EstimatedDuration,
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

// List обрабатывает GET /api/projects/:id/proposals. Доступно владельцу проекта.
func (h *ProposalHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	proposals, err := h.proposals.ListProposals(c.Request.Context(), projectID, userID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProposalListResponse(proposals))
}

// Accept обрабатывает POST /api/proposals/:id/accept: принятие предложения
// с планом этапов будущего контракта.
func (h *ProposalHandler) Accept(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	proposalID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	var req dto.AcceptProposalRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.AbortWithError(c, err)
		return
	}

	plan := make([]service.MilestonePlanItem, 0, len(req.Milestones))
	for _, item := range req.Milestones {
		amount, err := decimal.NewFromString(item.Amount)
		if err != nil {
			common.AbortWithError(c, apperror.New(apperror.ErrCodeInvalidRequest, "некорректная сумма этапа"))
			return
		}
		plan = append(plan, service.MilestonePlanItem{
			Title:       item.Title,
			Description: item.Description,
			Amount:      amount,
			DueDate:     item.DueDate,
		})
	}

	result, err := h.proposals.Accept(c.Request.Context(), proposalID, userID, plan)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	h.notifyAccepted(result)

	c.JSON(http.StatusOK, dto.NewAcceptProposalResponse(result))
}

// notifyAccepted рассылает события принятия: победителю — контракт,
// остальным — отклонение их предложений.
func (h *ProposalHandler) notifyAccepted(result *service.AcceptResult) {
	if h.hub == nil {
		return
	}

	accepted := result
	goroutine.SafeGo(func() {
		_ = h.hub.NotifyUser(accepted.Proposal.FreelancerID, ws.EventProposalAccepted, gin.H{
			"proposal_id": accepted.Proposal.ID,
			"project_id":  accepted.Proposal.ProjectID,
			"contract_id": accepted.Contract.ID,
		})
		for _, freelancerID := range accepted.RejectedFreelancers {
			_ = h.hub.NotifyUser(freelancerID, ws.EventProposalRejected, gin.H{
				"project_id": accepted.Proposal.ProjectID,
			})
		}
	})
}
