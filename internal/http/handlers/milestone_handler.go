package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-market-backend/internal/dto"
	"github.com/ignatzorin/freelance-market-backend/internal/goroutine"
	"github.com/ignatzorin/freelance-market-backend/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-market-backend/internal/service"
	"github.com/ignatzorin/freelance-market-backend/internal/ws"
)

// MilestoneHandler предоставляет HTTP слой для workflow этапов.
type MilestoneHandler struct {
	milestones *service.MilestoneService
	hub        *ws.Hub
}

// NewMilestoneHandler создаёт хэндлер.
func NewMilestoneHandler(milestones *service.MilestoneService, hub *ws.Hub) *MilestoneHandler {
	return &MilestoneHandler{milestones: milestones, hub: hub}
}

// Submit обрабатывает POST /api/milestones/:id/submit.
func (h *MilestoneHandler) Submit(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	milestoneID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	out, err := h.milestones.Submit(c.Request.Context(), milestoneID, userID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	if h.hub != nil {
		submitted := out
		goroutine.SafeGo(func() {
			_ = h.hub.NotifyUser(submitted.ClientID, ws.EventMilestoneSubmitted, gin.H{
				"milestone_id": submitted.Milestone.ID,
				"contract_id":  submitted.Milestone.ContractID,
			})
		})
	}

	c.JSON(http.StatusOK, dto.MilestoneActionResponse{
		Milestone: dto.NewMilestoneResponse(out.Milestone),
	})
}

// Approve обрабатывает POST /api/milestones/:id/approve.
func (h *MilestoneHandler) Approve(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	milestoneID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	out, err := h.milestones.Approve(c.Request.Context(), milestoneID, userID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	if h.hub != nil {
		approved := out
		goroutine.SafeGo(func() {
			_ = h.hub.NotifyUser(approved.FreelancerID, ws.EventMilestoneApproved, gin.H{
				"milestone_id": approved.Milestone.ID,
				"contract_id":  approved.ContractID,
			})
			if approved.ContractCompleted {
				payload := gin.H{
					"contract_id": approved.ContractID,
					"project_id":  approved.ProjectID,
				}
				_ = h.hub.NotifyUser(approved.FreelancerID, ws.EventContractCompleted, payload)
				_ = h.hub.NotifyUser(approved.ClientID, ws.EventContractCompleted, payload)
			}
		})
	}

	c.JSON(http.StatusOK, dto.MilestoneActionResponse{
		Milestone:         dto.NewMilestoneResponse(out.Milestone),
		ContractCompleted: out.ContractCompleted,
	})
}
