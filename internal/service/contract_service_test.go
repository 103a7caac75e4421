package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/freelance-market-backend/internal/models"
	"github.com/ignatzorin/freelance-market-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-market-backend/internal/repository"
)

type mockContractRepo struct {
	mock.Mock
}

func (m *mockContractRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

func (m *mockContractRepo) ListForUser(ctx context.Context, filter repository.ContractFilter) ([]repository.ContractListItem, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]repository.ContractListItem), args.Error(1)
}

func (m *mockContractRepo) ListMilestones(ctx context.Context, contractID uuid.UUID) ([]models.Milestone, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).([]models.Milestone), args.Error(1)
}

func TestContractService_ListContracts_PassesFilter(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo)
	ctx := context.Background()

	userID := uuid.New()
	expected := repository.ContractFilter{UserID: userID, Status: models.ContractStatusActive, Role: models.RoleClient}
	repo.On("ListForUser", ctx, expected).Return([]repository.ContractListItem{}, nil)

	_, err := svc.ListContracts(ctx, userID, models.ContractStatusActive, models.RoleClient)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestContractService_ListContracts_InvalidFilters(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo)
	ctx := context.Background()

	_, err := svc.ListContracts(ctx, uuid.New(), "cancelled", "")
	assert.Error(t, err)

	_, err = svc.ListContracts(ctx, uuid.New(), "", "admin")
	assert.Error(t, err)

	repo.AssertNotCalled(t, "ListForUser", mock.Anything, mock.Anything)
}

func TestContractService_GetContract_Participant(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo)
	ctx := context.Background()

	contract := &models.Contract{
		ID:           uuid.New(),
		ClientID:     uuid.New(),
		FreelancerID: uuid.New(),
		Status:       models.ContractStatusActive,
	}
	milestones := []models.Milestone{
		{ID: uuid.New(), ContractID: contract.ID, OrderIndex: 1},
		{ID: uuid.New(), ContractID: contract.ID, OrderIndex: 2},
	}

	repo.On("GetByID", ctx, contract.ID).Return(contract, nil)
	repo.On("ListMilestones", ctx, contract.ID).Return(milestones, nil)

	details, err := svc.GetContract(ctx, contract.ID, contract.FreelancerID)

	assert.NoError(t, err)
	assert.Equal(t, contract.ID, details.Contract.ID)
	assert.Len(t, details.Milestones, 2)
}

func TestContractService_GetContract_Outsider(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo)
	ctx := context.Background()

	contract := &models.Contract{
		ID:           uuid.New(),
		ClientID:     uuid.New(),
		FreelancerID: uuid.New(),
	}
	repo.On("GetByID", ctx, contract.ID).Return(contract, nil)

	_, err := svc.GetContract(ctx, contract.ID, uuid.New())

	assert.ErrorIs(t, err, apperror.ErrForbidden)
	repo.AssertNotCalled(t, "ListMilestones", mock.Anything, mock.Anything)
}

func TestContractService_GetContract_NotFound(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo)
	ctx := context.Background()

	missingID := uuid.New()
	repo.On("GetByID", ctx, missingID).Return(nil, repository.ErrContractNotFound)

	_, err := svc.GetContract(ctx, missingID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrContractNotFound)
}
