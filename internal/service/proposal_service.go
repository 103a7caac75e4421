package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-market-backend/internal/logger"
	"github.com/ignatzorin/freelance-market-backend/internal/models"
	"github.com/ignatzorin/freelance-market-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-market-backend/internal/repository"
	"github.com/ignatzorin/freelance-market-backend/internal/validation"
)

// Допустимое расхождение между ценой предложения и суммой этапов,
// возникающее из-за округления до копеек.
var milestoneAmountTolerance = decimal.NewFromFloat(0.01)

// ProposalRepo описывает зависимости ProposalService от слоя хранилища.
type ProposalRepo interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]repository.ProposalWithFreelancer, error)
	Accept(ctx context.Context, proposal *models.Proposal, contract *models.Contract, milestones []models.Milestone) ([]uuid.UUID, error)
}

// ProjectRepoForProposal отдаёт проект для проверок владения и статуса.
type ProjectRepoForProposal interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// UserRepoForProposal отдаёт пользователя для проверки роли.
type UserRepoForProposal interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ProposalService инкапсулирует создание, просмотр и принятие предложений.
type ProposalService struct {
	proposals ProposalRepo
	projects  ProjectRepoForProposal
	users     UserRepoForProposal
}

// ProposalInput содержит данные нового предложения.
type ProposalInput struct {
	ProjectID         uuid.UUID
	FreelancerID      uuid.UUID
	CoverLetter       string
	ProposedPrice     decimal.Decimal
	EstimatedDuration int
}

// MilestonePlanItem — один этап в плане принятия предложения.
type MilestonePlanItem struct {
	Title       string
	Description *string
	Amount      decimal.Decimal
	DueDate     string
}

// AcceptResult — итог принятия предложения: предложение, контракт,
// этапы в порядке их следования в плане и исполнители, чьи предложения
// были отклонены.
type AcceptResult struct {
	Proposal            *models.Proposal
	Contract            *models.Contract
	Milestones          []models.Milestone
	RejectedFreelancers []uuid.UUID
}

// NewProposalService создаёт сервис предложений.
func NewProposalService(proposals ProposalRepo, projects ProjectRepoForProposal, users UserRepoForProposal) *ProposalService {
	return &ProposalService{proposals: proposals, projects: projects, users: users}
}

// CreateProposal создаёт отклик фрилансера на открытый проект.
func (s *ProposalService) CreateProposal(ctx context.Context, in ProposalInput) (*models.Proposal, error) {
	user, err := s.users.GetByID(ctx, in.FreelancerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}
	if user.Role != models.RoleFreelancer {
		return nil, apperror.ErrForbidden
	}

	project, err := s.projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, err
	}
	if project.Status != models.ProjectStatusOpen {
		return nil, apperror.ErrProjectNotOpen
	}

	if err := validation.ValidateLength("сопроводительное письмо", in.CoverLetter, validation.MinCoverLetterLength, validation.MaxCoverLetterLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidRequest, err.Error())
	}
	if !in.ProposedPrice.IsPositive() {
		return nil, apperror.New(apperror.ErrCodeInvalidRequest, "цена предложения должна быть положительной")
	}
	if in.EstimatedDuration <= 0 {
		return nil, apperror.New(apperror.ErrCodeInvalidRequest, "оценка срока должна быть положительной")
	}

	proposal := &models.Proposal{
		ProjectID:         in.ProjectID,
		FreelancerID:      in.FreelancerID,
		CoverLetter:       in.CoverLetter,
		ProposedPrice:     in.ProposedPrice,
		EstimatedDuration: in.EstimatedDuration,
		Status:            models.ProposalStatusPending,
	}

	if err := s.proposals.Create(ctx, proposal); err != nil {
		if errors.Is(err, repository.ErrProposalExists) {
			return nil, apperror.ErrProposalAlreadyExists
		}
		return nil, err
	}
	return proposal, nil
}

// ListProposals возвращает предложения проекта. Доступно только владельцу.
func (s *ProposalService) ListProposals(ctx context.Context, projectID, requestingUserID uuid.UUID) ([]repository.ProposalWithFreelancer, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, err
	}
	if project.ClientID != requestingUserID {
		return nil, apperror.ErrForbidden
	}

	return s.proposals.ListByProject(ctx, projectID)
}

// Accept принимает предложение от имени владельца проекта и одной
// транзакцией создаёт контракт с упорядоченными этапами, отклоняя
// остальные предложения проекта.
//
// Статус предложения проверяется здесь и повторно — условным UPDATE внутри
// транзакции, поэтому из двух конкурентных принятий выигрывает ровно одно.
func (s *ProposalService) Accept(ctx context.Context, proposalID, actingUserID uuid.UUID, plan []MilestonePlanItem) (*AcceptResult, error) {
	proposal, err := s.proposals.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, repository.ErrProposalNotFound) {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, proposal.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, err
	}
	if project.ClientID != actingUserID {
		return nil, apperror.ErrForbidden
	}

	if proposal.Status != models.ProposalStatusPending {
		return nil, apperror.ErrProposalAlreadyProcessed
	}

	milestones, err := buildMilestonePlan(plan, proposal.ProposedPrice)
	if err != nil {
		return nil, err
	}

	contract := &models.Contract{
		ProjectID:    proposal.ProjectID,
		ProposalID:   proposal.ID,
		ClientID:     project.ClientID,
		FreelancerID: proposal.FreelancerID,
		TotalAmount:  proposal.ProposedPrice,
		Status:       models.ContractStatusActive,
	}

	rejected, err := s.proposals.Accept(ctx, proposal, contract, milestones)
	if err != nil {
		if errors.Is(err, repository.ErrProposalAlreadyProcessed) {
			return nil, apperror.ErrProposalAlreadyProcessed
		}
		return nil, err
	}

	proposal.Status = models.ProposalStatusAccepted

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"proposal_id": proposal.ID,
			"contract_id": contract.ID,
			"project_id":  proposal.ProjectID,
			"milestones":  len(milestones),
		}).Info("proposal accepted, contract created")
	}

	return &AcceptResult{
		Proposal:            proposal,
		Contract:            contract,
		Milestones:          milestones,
		RejectedFreelancers: rejected,
	}, nil
}

// buildMilestonePlan превращает план в этапы с order_index 1..n в порядке
// следования и сверяет сумму с ценой предложения с точностью до 0.01.
func buildMilestonePlan(plan []MilestonePlanItem, proposedPrice decimal.Decimal) ([]models.Milestone, error) {
	if len(plan) == 0 {
		return nil, apperror.New(apperror.ErrCodeInvalidRequest, "план этапов не должен быть пустым")
	}
	if len(plan) > validation.MaxMilestonesPerPlan {
		return nil, apperror.New(apperror.ErrCodeInvalidRequest, "слишком много этапов в плане")
	}

	milestones := make([]models.Milestone, 0, len(plan))
	total := decimal.Zero

	for i, item := range plan {
		if item.Title == "" {
			return nil, apperror.New(apperror.ErrCodeInvalidRequest, "заголовок этапа обязателен")
		}
		if !item.Amount.IsPositive() {
			return nil, apperror.New(apperror.ErrCodeInvalidRequest, "сумма этапа должна быть положительной")
		}
		dueDate, err := validation.ParseDate(item.DueDate)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInvalidRequest, err.Error())
		}

		total = total.Add(item.Amount)
		milestones = append(milestones, models.Milestone{
			Title:       item.Title,
			Description: item.Description,
			Amount:      item.Amount,
			DueDate:     dueDate,
			OrderIndex:  i + 1,
			Status:      models.MilestoneStatusPending,
		})
	}

	if total.Sub(proposedPrice).Abs().GreaterThan(milestoneAmountTolerance) {
		return nil, apperror.ErrInvalidMilestoneAmounts
	}

	return milestones, nil
}
