package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/freelance-market-backend/internal/models"
	"github.com/ignatzorin/freelance-market-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-market-backend/internal/repository"
)

type mockProposalRepo struct {
	mock.Mock
}

func (m *mockProposalRepo) Create(ctx context.Context, proposal *models.Proposal) error {
	args := m.Called(ctx, proposal)
	if args.Error(0) == nil {
		proposal.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockProposalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Proposal), args.Error(1)
}

func (m *mockProposalRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]repository.ProposalWithFreelancer, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]repository.ProposalWithFreelancer), args.Error(1)
}

func (m *mockProposalRepo) Accept(ctx context.Context, proposal *models.Proposal, contract *models.Contract, milestones []models.Milestone) ([]uuid.UUID, error) {
	args := m.Called(ctx, proposal, contract, milestones)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	contract.ID = uuid.New()
	for i := range milestones {
		milestones[i].ID = uuid.New()
		milestones[i].ContractID = contract.ID
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type mockProjectRepoForProposal struct {
	mock.Mock
}

func (m *mockProjectRepoForProposal) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

type mockUserRepoForProposal struct {
	mock.Mock
}

func (m *mockUserRepoForProposal) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newProposalServiceForTest() (*ProposalService, *mockProposalRepo, *mockProjectRepoForProposal, *mockUserRepoForProposal) {
	proposals := new(mockProposalRepo)
	projects := new(mockProjectRepoForProposal)
	users := new(mockUserRepoForProposal)
	return NewProposalService(proposals, projects, users), proposals, projects, users
}

func TestProposalService_CreateProposal_Success(t *testing.T) {
	svc, proposals, projects, users := newProposalServiceForTest()
	ctx := context.Background()

	freelancerID := uuid.New()
	projectID := uuid.New()

	users.On("GetByID", ctx, freelancerID).Return(&models.User{ID: freelancerID, Role: models.RoleFreelancer}, nil)
	projects.On("GetByID", ctx, projectID).Return(&models.Project{ID: projectID, Status: models.ProjectStatusOpen}, nil)
	proposals.On("Create", ctx, mock.AnythingOfType("*models.Proposal")).Return(nil)

	proposal, err := svc.CreateProposal(ctx, ProposalInput{
		ProjectID:         projectID,
		FreelancerID:      freelancerID,
		CoverLetter:       "Готов взяться за проект, есть релевантный опыт.",
		ProposedPrice:     decimal.NewFromInt(50000),
		EstimatedDuration: 14,
	})

	assert.NoError(t, err)
	assert.NotNil(t, proposal)
	assert.Equal(t, models.ProposalStatusPending, proposal.Status)
}

func TestProposalService_CreateProposal_ProjectNotOpen(t *testing.T) {
	svc, _, projects, users := newProposalServiceForTest()
	ctx := context.Background()

	freelancerID := uuid.New()
	projectID := uuid.New()

	users.On("GetByID", ctx, freelancerID).Return(&models.User{ID: freelancerID, Role: models.RoleFreelancer}, nil)
	projects.On("GetByID", ctx, projectID).Return(&models.Project{ID: projectID, Status: models.ProjectStatusInProgress}, nil)

	_, err := svc.CreateProposal(ctx, ProposalInput{
		ProjectID:         projectID,
		FreelancerID:      freelancerID,
		CoverLetter:       "Готов взяться за проект, есть релевантный опыт.",
		ProposedPrice:     decimal.NewFromInt(50000),
		EstimatedDuration: 14,
	})

	assert.ErrorIs(t, err, apperror.ErrProjectNotOpen)
}

func TestProposalService_CreateProposal_ClientForbidden(t *testing.T) {
	svc, _, _, users := newProposalServiceForTest()
	ctx := context.Background()

	clientID := uuid.New()
	users.On("GetByID", ctx, clientID).Return(&models.User{ID: clientID, Role: models.RoleClient}, nil)

	_, err := svc.CreateProposal(ctx, ProposalInput{
		ProjectID:         uuid.New(),
		FreelancerID:      clientID,
		CoverLetter:       "Готов взяться за проект, есть релевантный опыт.",
		ProposedPrice:     decimal.NewFromInt(50000),
		EstimatedDuration: 14,
	})

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestProposalService_CreateProposal_Duplicate(t *testing.T) {
	svc, proposals, projects, users := newProposalServiceForTest()
	ctx := context.Background()

	freelancerID := uuid.New()
	projectID := uuid.New()

	users.On("GetByID", ctx, freelancerID).Return(&models.User{ID: freelancerID, Role: models.RoleFreelancer}, nil)
	projects.On("GetByID", ctx, projectID).Return(&models.Project{ID: projectID, Status: models.ProjectStatusOpen}, nil)
	proposals.On("Create", ctx, mock.AnythingOfType("*models.Proposal")).Return(repository.ErrProposalExists)

	_, err := svc.CreateProposal(ctx, ProposalInput{
		ProjectID:         projectID,
		FreelancerID:      freelancerID,
		CoverLetter:       "Готов взяться за проект, есть релевантный опыт.",
		ProposedPrice:     decimal.NewFromInt(50000),
		EstimatedDuration: 14,
	})

	assert.ErrorIs(t, err, apperror.ErrProposalAlreadyExists)
}

func TestProposalService_ListProposals_NotOwner(t *testing.T) {
	svc, _, projects, _ := newProposalServiceForTest()
	ctx := context.Background()

	projectID := uuid.New()
	projects.On("GetByID", ctx, projectID).Return(&models.Project{ID: projectID, ClientID: uuid.New()}, nil)

	_, err := svc.ListProposals(ctx, projectID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func acceptFixture() (*models.Proposal, *models.Project) {
	clientID := uuid.New()
	projectID := uuid.New()
	proposal := &models.Proposal{
		ID:            uuid.New(),
		ProjectID:     projectID,
		FreelancerID:  uuid.New(),
		ProposedPrice: decimal.NewFromInt(90000),
		Status:        models.ProposalStatusPending,
	}
	project := &models.Project{
		ID:       projectID,
		ClientID: clientID,
		Status:   models.ProjectStatusOpen,
	}
	return proposal, project
}

func TestProposalService_Accept_Success(t *testing.T) {
	svc, proposals, projects, _ := newProposalServiceForTest()
	ctx := context.Background()

	proposal, project := acceptFixture()
	proposals.On("GetByID", ctx, proposal.ID).Return(proposal, nil)
	projects.On("GetByID", ctx, project.ID).Return(project, nil)
	rejectedFreelancer := uuid.New()
	proposals.On("Accept", ctx, proposal, mock.AnythingOfType("*models.Contract"), mock.AnythingOfType("[]models.Milestone")).Return([]uuid.UUID{rejectedFreelancer}, nil)

	plan := []MilestonePlanItem{
		{Title: "Прототип", Amount: decimal.NewFromInt(30000), DueDate: "2026-10-01"},
		{Title: "Бэкенд", Amount: decimal.NewFromInt(40000), DueDate: "2026-11-01"},
		{Title: "Запуск", Amount: decimal.NewFromInt(20000), DueDate: "2026-12-01"},
	}

	result, err := svc.Accept(ctx, proposal.ID, project.ClientID, plan)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, []uuid.UUID{rejectedFreelancer}, result.RejectedFreelancers)
	assert.Equal(t, models.ProposalStatusAccepted, result.Proposal.Status)
	assert.Equal(t, models.ContractStatusActive, result.Contract.Status)
	assert.True(t, result.Contract.TotalAmount.Equal(decimal.NewFromInt(90000)))
	assert.Len(t, result.Milestones, 3)
	for i, m := range result.Milestones {
		assert.Equal(t, i+1, m.OrderIndex)
		assert.Equal(t, models.MilestoneStatusPending, m.Status)
	}
}

func TestProposalService_Accept_NotOwner(t *testing.T) {
	svc, proposals, projects, _ := newProposalServiceForTest()
	ctx := context.Background()

	proposal, project := acceptFixture()
	proposals.On("GetByID", ctx, proposal.ID).Return(proposal, nil)
	projects.On("GetByID", ctx, project.ID).Return(project, nil)

	_, err := svc.Accept(ctx, proposal.ID, uuid.New(), []MilestonePlanItem{
		{Title: "Этап", Amount: decimal.NewFromInt(90000), DueDate: "2026-10-01"},
	})

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestProposalService_Accept_AlreadyProcessed(t *testing.T) {
	svc, proposals, projects, _ := newProposalServiceForTest()
	ctx := context.Background()

	proposal, project := acceptFixture()
	proposal.Status = models.ProposalStatusRejected
	proposals.On("GetByID", ctx, proposal.ID).Return(proposal, nil)
	projects.On("GetByID", ctx, project.ID).Return(project, nil)

	_, err := svc.Accept(ctx, proposal.ID, project.ClientID, []MilestonePlanItem{
		{Title: "Этап", Amount: decimal.NewFromInt(90000), DueDate: "2026-10-01"},
	})

	assert.ErrorIs(t, err, apperror.ErrProposalAlreadyProcessed)
}

func TestProposalService_Accept_AmountMismatch(t *testing.T) {
	svc, proposals, projects, _ := newProposalServiceForTest()
	ctx := context.Background()

	proposal, project := acceptFixture()
	proposals.On("GetByID", ctx, proposal.ID).Return(proposal, nil)
	projects.On("GetByID", ctx, project.ID).Return(project, nil)

	_, err := svc.Accept(ctx, proposal.ID, project.ClientID, []MilestonePlanItem{
		{Title: "Прототип", Amount: decimal.NewFromInt(30000), DueDate: "2026-10-01"},
		{Title: "Бэкенд", Amount: decimal.NewFromInt(40000), DueDate: "2026-11-01"},
	})

	assert.ErrorIs(t, err, apperror.ErrInvalidMilestoneAmounts)
}

func TestProposalService_Accept_AmountWithinTolerance(t *testing.T) {
	svc, proposals, projects, _ := newProposalServiceForTest()
	ctx := context.Background()

	proposal, project := acceptFixture()
	proposal.ProposedPrice = decimal.RequireFromString("100.00")
	proposals.On("GetByID", ctx, proposal.ID).Return(proposal, nil)
	projects.On("GetByID", ctx, project.ID).Return(project, nil)
	proposals.On("Accept", ctx, proposal, mock.AnythingOfType("*models.Contract"), mock.AnythingOfType("[]models.Milestone")).Return([]uuid.UUID{}, nil)

	// 33.33 * 3 = 99.99, расхождение ровно 0.01.
	plan := []MilestonePlanItem{
		{Title: "Этап 1", Amount: decimal.RequireFromString("33.33"), DueDate: "2026-10-01"},
		{Title: "Этап 2", Amount: decimal.RequireFromString("33.33"), DueDate: "2026-11-01"},
		{Title: "Этап 3", Amount: decimal.RequireFromString("33.33"), DueDate: "2026-12-01"},
	}

	_, err := svc.Accept(ctx, proposal.ID, project.ClientID, plan)
	assert.NoError(t, err)
}

func TestProposalService_Accept_EmptyPlan(t *testing.T) {
	svc, proposals, projects, _ := newProposalServiceForTest()
	ctx := context.Background()

	proposal, project := acceptFixture()
	proposals.On("GetByID", ctx, proposal.ID).Return(proposal, nil)
	projects.On("GetByID", ctx, project.ID).Return(project, nil)

	_, err := svc.Accept(ctx, proposal.ID, project.ClientID, nil)

	appErr, ok := apperror.From(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.ErrCodeInvalidRequest, appErr.Code)
}

func TestProposalService_Accept_LostRace(t *testing.T) {
	svc, proposals, projects, _ := newProposalServiceForTest()
	ctx := context.Background()

	proposal, project := acceptFixture()
	proposals.On("GetByID", ctx, proposal.ID).Return(proposal, nil)
	projects.On("GetByID", ctx, project.ID).Return(project, nil)
	proposals.On("Accept", ctx, proposal, mock.AnythingOfType("*models.Contract"), mock.AnythingOfType("[]models.Milestone")).Return([]uuid.UUID(nil), repository.ErrProposalAlreadyProcessed)

	_, err := svc.Accept(ctx, proposal.ID, project.ClientID, []MilestonePlanItem{
		{Title: "Этап", Amount: decimal.NewFromInt(90000), DueDate: "2026-10-01"},
	})

	assert.ErrorIs(t, err, apperror.ErrProposalAlreadyProcessed)
}

func TestProposalService_Accept_NotFound(t *testing.T) {
	svc, proposals, _, _ := newProposalServiceForTest()
	ctx := context.Background()

	missingID := uuid.New()
	proposals.On("GetByID", ctx, missingID).Return(nil, repository.ErrProposalNotFound)

	_, err := svc.Accept(ctx, missingID, uuid.New(), nil)
	assert.ErrorIs(t, err, apperror.ErrProposalNotFound)
}
