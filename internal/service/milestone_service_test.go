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

type mockMilestoneRepo struct {
	mock.Mock
}

func (m *mockMilestoneRepo) GetMilestoneWithContract(ctx context.Context, milestoneID uuid.UUID) (*repository.MilestoneWithContract, error) {
	args := m.Called(ctx, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.MilestoneWithContract), args.Error(1)
}

func (m *mockMilestoneRepo) ListStatusesBelow(ctx context.Context, contractID uuid.UUID, orderIndex int) ([]string, error) {
	args := m.Called(ctx, contractID, orderIndex)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockMilestoneRepo) SubmitMilestone(ctx context.Context, milestoneID uuid.UUID) (*models.Milestone, error) {
	args := m.Called(ctx, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Milestone), args.Error(1)
}

func (m *mockMilestoneRepo) ApproveMilestone(ctx context.Context, milestoneID, contractID, projectID uuid.UUID) (*models.Milestone, bool, error) {
	args := m.Called(ctx, milestoneID, contractID, projectID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Milestone), args.Bool(1), args.Error(2)
}

func milestoneFixture(orderIndex int, status string) *repository.MilestoneWithContract {
	return &repository.MilestoneWithContract{
		Milestone: models.Milestone{
			ID:         uuid.New(),
			ContractID: uuid.New(),
			OrderIndex: orderIndex,
			Status:     status,
		},
		ContractClientID:     uuid.New(),
		ContractFreelancerID: uuid.New(),
		ContractProjectID:    uuid.New(),
		ContractStatus:       models.ContractStatusActive,
	}
}

func TestMilestoneService_Submit_FirstMilestone(t *testing.T) {
	repo := new(mockMilestoneRepo)
	svc := NewMilestoneService(repo)
	ctx := context.Background()

	mw := milestoneFixture(1, models.MilestoneStatusPending)
	submitted := mw.Milestone
	submitted.Status = models.MilestoneStatusSubmitted

	repo.On("GetMilestoneWithContract", ctx, mw.ID).Return(mw, nil)
	repo.On("SubmitMilestone", ctx, mw.ID).Return(&submitted, nil)

	out, err := svc.Submit(ctx, mw.ID, mw.ContractFreelancerID)

	assert.NoError(t, err)
	assert.Equal(t, models.MilestoneStatusSubmitted, out.Milestone.Status)
	assert.Equal(t, mw.ContractClientID, out.ClientID)
	repo.AssertNotCalled(t, "ListStatusesBelow", mock.Anything, mock.Anything, mock.Anything)
}

func TestMilestoneService_Submit_PreviousApproved(t *testing.T) {
	repo := new(mockMilestoneRepo)
	svc := NewMilestoneService(repo)
	ctx := context.Background()

	mw := milestoneFixture(3, models.MilestoneStatusPending)
	submitted := mw.Milestone
	submitted.Status = models.MilestoneStatusSubmitted

	repo.On("GetMilestoneWithContract", ctx, mw.ID).Return(mw, nil)
	repo.On("ListStatusesBelow", ctx, mw.ContractID, 3).Return([]string{models.MilestoneStatusApproved, models.MilestoneStatusApproved}, nil)
	repo.On("SubmitMilestone", ctx, mw.ID).Return(&submitted, nil)

	out, err := svc.Submit(ctx, mw.ID, mw.ContractFreelancerID)

	assert.NoError(t, err)
	assert.Equal(t, models.MilestoneStatusSubmitted, out.Milestone.Status)
}

func TestMilestoneService_Submit_PreviousIncomplete(t *testing.T) {
	repo := new(mockMilestoneRepo)
	svc := NewMilestoneService(repo)
	ctx := context.Background()

	mw := milestoneFixture(2, models.MilestoneStatusPending)
	repo.On("GetMilestoneWithContract", ctx, mw.ID).Return(mw, nil)
	repo.On("ListStatusesBelow", ctx, mw.ContractID, 2).Return([]string{models.MilestoneStatusSubmitted}, nil)

	_, err := svc.Submit(ctx, mw.ID, mw.ContractFreelancerID)

	assert.ErrorIs(t, err, apperror.ErrPreviousMilestoneIncomplete)
	repo.AssertNotCalled(t, "SubmitMilestone", mock.Anything, mock.Anything)
}

func TestMilestoneService_Submit_AlreadySubmitted(t *testing.T) {
	repo := new(mockMilestoneRepo)
	svc := NewMilestoneService(repo)
	ctx := context.Background()

	for _, status := range []string{models.MilestoneStatusSubmitted, models.MilestoneStatusApproved} {
		mw := milestoneFixture(1, status)
		repo.On("GetMilestoneWithContract", ctx, mw.ID).Return(mw, nil)

		_, err := svc.Submit(ctx, mw.ID, mw.ContractFreelancerID)
		assert.ErrorIs(t, err, apperror.ErrMilestoneAlreadySubmitted)
	}
}

func TestMilestoneService_Submit_NotFreelancer(t *testing.T) {
	repo := new(mockMilestoneRepo)
	svc := NewMilestoneService(repo)
	ctx := context.Background()

	mw := milestoneFixture(1, models.MilestoneStatusPending)
	repo.On("GetMilestoneWithContract", ctx, mw.ID).Return(mw, nil)

	// Заказчик контракта тоже не может сдавать этапы.
	_, err := svc.Submit(ctx, mw.ID, mw.ContractClientID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestMilestoneService_Submit_NotFound(t *testing.T) {
	repo := new(mockMilestoneRepo)
	svc := NewMilestoneService(repo)
	ctx := context.Background()

	missingID := uuid.New()
	repo.On("GetMilestoneWithContract", ctx, missingID).Return(nil, repository.ErrMilestoneNotFound)

	_, err := svc.Submit(ctx, missingID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrMilestoneNotFound)
}

func TestMilestoneService_Submit_LostRace(t *testing.T) {
	repo := new(mockMilestoneRepo)
	svc := NewMilestoneService(repo)
	ctx := context.Background()

	mw := milestoneFixture(1, models.MilestoneStatusPending)
	repo.On("GetMilestoneWithContract", ctx, mw.ID).Return(mw, nil)
	repo.On("SubmitMilestone", ctx, mw.ID).Return(nil, repository.ErrMilestoneNotPending)

	_, err := svc.Submit(ctx, mw.ID, mw.ContractFreelancerID)
	assert.ErrorIs(t, err, apperror.ErrMilestoneAlreadySubmitted)
}

func TestMilestoneService_Approve_Intermediate(t *testing.T) {
	repo := new(mockMilestoneRepo)
	svc := NewMilestoneService(repo)
	ctx := context.Background()

	mw := milestoneFixture(1, models.MilestoneStatusSubmitted)
	approved := mw.Milestone
	approved.Status = models.MilestoneStatusApproved

	repo.On("GetMilestoneWithContract", ctx, mw.ID).Return(mw, nil)
	repo.On("ApproveMilestone", ctx, mw.ID, mw.ContractID, mw.ContractProjectID).Return(&approved, false, nil)

	out, err := svc.Approve(ctx, mw.ID, mw.ContractClientID)

	assert.NoError(t, err)
	assert.Equal(t, models.MilestoneStatusApproved, out.Milestone.Status)
	assert.False(t, out.ContractCompleted)
}

func TestMilestoneService_Approve_LastCompletesContract(t *testing.T) {
	repo := new(mockMilestoneRepo)
	svc := NewMilestoneService(repo)
	ctx := context.Background()

	mw := milestoneFixture(3, models.MilestoneStatusSubmitted)
	approved := mw.Milestone
	approved.Status = models.MilestoneStatusApproved

	repo.On("GetMilestoneWithContract", ctx, mw.ID).Return(mw, nil)
	repo.On("ApproveMilestone", ctx, mw.ID, mw.ContractID, mw.ContractProjectID).Return(&approved, true, nil)

	out, err := svc.Approve(ctx, mw.ID, mw.ContractClientID)

	assert.NoError(t, err)
	assert.True(t, out.ContractCompleted)
	assert.Equal(t, mw.ContractID, out.ContractID)
	assert.Equal(t, mw.ContractProjectID, out.ProjectID)
}

func TestMilestoneService_Approve_NotSubmitted(t *testing.T) {
	repo := new(mockMilestoneRepo)
	svc := NewMilestoneService(repo)
	ctx := context.Background()

	for _, status := range []string{models.MilestoneStatusPending, models.MilestoneStatusApproved} {
		mw := milestoneFixture(1, status)
		repo.On("GetMilestoneWithContract", ctx, mw.ID).Return(mw, nil)

		_, err := svc.Approve(ctx, mw.ID, mw.ContractClientID)
		assert.ErrorIs(t, err, apperror.ErrMilestoneNotSubmitted)
	}
	repo.AssertNotCalled(t, "ApproveMilestone", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMilestoneService_Approve_NotClient(t *testing.T) {
	repo := new(mockMilestoneRepo)
	svc := NewMilestoneService(repo)
	ctx := context.Background()

	mw := milestoneFixture(1, models.MilestoneStatusSubmitted)
	repo.On("GetMilestoneWithContract", ctx, mw.ID).Return(mw, nil)

	_, err := svc.Approve(ctx, mw.ID, mw.ContractFreelancerID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
