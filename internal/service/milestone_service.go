package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-market-backend/internal/logger"
	"github.com/ignatzorin/freelance-market-backend/internal/models"
	"github.com/ignatzorin/freelance-market-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-market-backend/internal/repository"
)

// MilestoneRepo описывает зависимости MilestoneService от слоя хранилища.
type MilestoneRepo interface {
	GetMilestoneWithContract(ctx context.Context, milestoneID uuid.UUID) (*repository.MilestoneWithContract, error)
	ListStatusesBelow(ctx context.Context, contractID uuid.UUID, orderIndex int) ([]string, error)
	SubmitMilestone(ctx context.Context, milestoneID uuid.UUID) (*models.Milestone, error)
	ApproveMilestone(ctx context.Context, milestoneID, contractID, projectID uuid.UUID) (*models.Milestone, bool, error)
}

// MilestoneService реализует последовательный workflow этапов:
// pending -> submitted -> approved, строго по order_index, с каскадом
// завершения контракта и проекта на последнем принятии.
type MilestoneService struct {
	milestones MilestoneRepo
}

// ApproveOutcome — итог принятия этапа.
type ApproveOutcome struct {
	Milestone         *models.Milestone
	ContractCompleted bool
	ContractID        uuid.UUID
	ProjectID         uuid.UUID
	FreelancerID      uuid.UUID
	ClientID          uuid.UUID
}

// SubmitOutcome — итог сдачи этапа.
type SubmitOutcome struct {
	Milestone *models.Milestone
	ClientID  uuid.UUID
}

// NewMilestoneService создаёт сервис этапов.
func NewMilestoneService(milestones MilestoneRepo) *MilestoneService {
	return &MilestoneService{milestones: milestones}
}

// Submit сдаёт этап на проверку от имени исполнителя контракта.
// Этап с order_index > 1 можно сдать только после принятия всех
// предыдущих этапов.
func (s *MilestoneService) Submit(ctx context.Context, milestoneID, actingUserID uuid.UUID) (*SubmitOutcome, error) {
	milestone, err := s.milestones.GetMilestoneWithContract(ctx, milestoneID)
	if err != nil {
		if errors.Is(err, repository.ErrMilestoneNotFound) {
			return nil, apperror.ErrMilestoneNotFound
		}
		return nil, err
	}

	if milestone.ContractFreelancerID != actingUserID {
		return nil, apperror.ErrForbidden
	}

	if milestone.Status == models.MilestoneStatusSubmitted || milestone.Status == models.MilestoneStatusApproved {
		return nil, apperror.ErrMilestoneAlreadySubmitted
	}

	if milestone.OrderIndex > 1 {
		statuses, err := s.milestones.ListStatusesBelow(ctx, milestone.ContractID, milestone.OrderIndex)
		if err != nil {
			return nil, err
		}
		// Проверка исчерпывающая: каждый предыдущий этап должен быть approved.
		for _, status := range statuses {
			if status != models.MilestoneStatusApproved {
				return nil, apperror.ErrPreviousMilestoneIncomplete
			}
		}
	}

	updated, err := s.milestones.SubmitMilestone(ctx, milestoneID)
	if err != nil {
		// Конкурентная сдача: статус уже потреблён другим запросом.
		if errors.Is(err, repository.ErrMilestoneNotPending) {
			return nil, apperror.ErrMilestoneAlreadySubmitted
		}
		return nil, err
	}

	return &SubmitOutcome{Milestone: updated, ClientID: milestone.ContractClientID}, nil
}

// Approve принимает сданный этап от имени заказчика контракта.
// Принятие и каскад завершения выполняются одной транзакцией: если после
// записи принятия все этапы контракта approved, контракт и проект
// переводятся в completed тем же коммитом.
func (s *MilestoneService) Approve(ctx context.Context, milestoneID, actingUserID uuid.UUID) (*ApproveOutcome, error) {
	milestone, err := s.milestones.GetMilestoneWithContract(ctx, milestoneID)
	if err != nil {
		if errors.Is(err, repository.ErrMilestoneNotFound) {
			return nil, apperror.ErrMilestoneNotFound
		}
		return nil, err
	}

	if milestone.ContractClientID != actingUserID {
		return nil, apperror.ErrForbidden
	}

	// Один код покрывает и несданный, и уже принятый этап.
	if milestone.Status != models.MilestoneStatusSubmitted {
		return nil, apperror.ErrMilestoneNotSubmitted
	}

	updated, completed, err := s.milestones.ApproveMilestone(ctx, milestoneID, milestone.ContractID, milestone.ContractProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrMilestoneNotSubmitted) {
			return nil, apperror.ErrMilestoneNotSubmitted
		}
		return nil, err
	}

	if completed && logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"contract_id": milestone.ContractID,
			"project_id":  milestone.ContractProjectID,
		}).Info("all milestones approved, contract completed")
	}

	return &ApproveOutcome{
		Milestone:         updated,
		ContractCompleted: completed,
		ContractID:        milestone.ContractID,
		ProjectID:         milestone.ContractProjectID,
		FreelancerID:      milestone.ContractFreelancerID,
		ClientID:          milestone.ContractClientID,
	}, nil
}
