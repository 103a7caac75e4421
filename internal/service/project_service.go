package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/freelance-market-backend/internal/models"
	"github.com/ignatzorin/freelance-market-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-market-backend/internal/repository"
	"github.com/ignatzorin/freelance-market-backend/internal/validation"
)

// ProjectRepo описывает зависимости ProjectService от слоя хранилища.
type ProjectRepo interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, filter repository.ProjectFilter) ([]repository.ProjectWithMeta, error)
}

// UserRepoForProject отдаёт пользователя для проверки роли.
type UserRepoForProject interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ProjectService инкапсулирует работу с проектами.
type ProjectService struct {
	projects ProjectRepo
	users    UserRepoForProject
}

// ProjectInput содержит данные нового проекта.
type ProjectInput struct {
	ClientID       uuid.UUID
	Title          string
	Description    string
	Category       string
	BudgetMin      decimal.Decimal
	BudgetMax      decimal.Decimal
	Deadline       string
	RequiredSkills []string
}

// NewProjectService создаёт сервис проектов.
func NewProjectService(projects ProjectRepo, users UserRepoForProject) *ProjectService {
	return &ProjectService{projects: projects, users: users}
}

// CreateProject публикует новый проект от имени заказчика.
func (s *ProjectService) CreateProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	user, err := s.users.GetByID(ctx, in.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}
	if user.Role != models.RoleClient {
		return nil, apperror.ErrForbidden
	}

	if err := validation.ValidateLength("заголовок", in.Title, validation.MinTitleLength, validation.MaxTitleLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidRequest, err.Error())
	}
	if err := validation.ValidateLength("описание", in.Description, validation.MinDescriptionLength, validation.MaxDescriptionLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidRequest, err.Error())
	}
	if in.Category == "" {
		return nil, apperror.New(apperror.ErrCodeInvalidRequest, "категория обязательна")
	}
	if !in.BudgetMin.IsPositive() || in.BudgetMax.LessThan(in.BudgetMin) {
		return nil, apperror.New(apperror.ErrCodeInvalidRequest, "некорректный бюджет проекта")
	}

	deadline, err := validation.ValidateFutureDate(in.Deadline)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidRequest, err.Error())
	}

	skills := in.RequiredSkills
	if skills == nil {
		skills = []string{}
	}

	project := &models.Project{
		ClientID:       in.ClientID,
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		BudgetMin:      in.BudgetMin,
		BudgetMax:      in.BudgetMax,
		Deadline:       deadline,
		Status:         models.ProjectStatusOpen,
		RequiredSkills: skills,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// GetProject возвращает проект по идентификатору.
func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// ListProjects возвращает проекты по фильтру; статус по умолчанию open.
func (s *ProjectService) ListProjects(ctx context.Context, filter repository.ProjectFilter) ([]repository.ProjectWithMeta, error) {
	if filter.Status == "" {
		filter.Status = models.ProjectStatusOpen
	}
	if _, ok := models.ValidProjectStatuses[filter.Status]; !ok {
		return nil, apperror.New(apperror.ErrCodeInvalidRequest, "некорректный статус проекта")
	}
	return s.projects.List(ctx, filter)
}
