package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/freelance-market-backend/internal/dto"
	"github.com/ignatzorin/freelance-market-backend/internal/http/handlers/common"
	"github.com/ignatzorin/freelance-market-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-market-backend/internal/repository"
	"github.com/ignatzorin/freelance-market-backend/internal/service"
)

// ProjectHandler предоставляет HTTP слой для проектов.
type ProjectHandler struct {
	projects *service.ProjectService
}

// NewProjectHandler создаёт хэндлер.
func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Create обрабатывает POST /api/projects.
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	var req dto.CreateProjectRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.AbortWithError(c, err)
		return
	}

	budgetMin, err := decimal.NewFromString(req.BudgetMin)
	if err != nil {
		common.AbortWithError(c, apperror.New(apperror.ErrCodeInvalidRequest, "некорректный минимальный бюджет"))
		return
	}
	budgetMax, err := decimal.NewFromString(req.BudgetMax)
	if err != nil {
		common.AbortWithError(c, apperror.New(apperror.ErrCodeInvalidRequest, "некорректный максимальный бюджет"))
		return
	}

	project, err := h.projects.CreateProject(c.Request.Context(), service.ProjectInput{
		ClientID:       userID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		BudgetMin:      budgetMin,
		BudgetMax:      budgetMax,
		Deadline:       req.Deadline,
		RequiredSkills: req.RequiredSkills,
	})
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewProjectResponse(project))
}

// List обрабатывает GET /api/projects с фильтрами по статусу, категории,
// бюджету и навыкам.
func (h *ProjectHandler) List(c *gin.Context) {
	filter := repository.ProjectFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}

	if raw := c.Query("min_budget"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			common.AbortWithError(c, apperror.New(apperror.ErrCodeInvalidRequest, "некорректный параметр min_budget"))
			return
		}
		filter.MinBudget = &parsed
	}
	if raw := c.Query("max_budget"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			common.AbortWithError(c, apperror.New(apperror.ErrCodeInvalidRequest, "некорректный параметр max_budget"))
			return
		}
		filter.MaxBudget = &parsed
	}
	if raw := c.Query("skills"); raw != "" {
		for _, skill := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(skill); trimmed != "" {
				filter.Skills = append(filter.Skills, trimmed)
			}
		}
	}

	projects, err := h.projects.ListProjects(c.Request.Context(), filter)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProjectListResponse(projects))
}

// Get обрабатывает GET /api/projects/:id.
func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	project, err := h.projects.GetProject(c.Request.Context(), projectID)
	if err != nil {
		common.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProjectResponse(project))
}
