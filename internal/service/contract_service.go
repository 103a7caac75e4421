package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-market-backend/internal/models"
	"github.com/ignatzorin/freelance-market-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-market-backend/internal/repository"
)

// ContractRepo описывает зависимости ContractService от слоя хранилища.
type ContractRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	ListForUser(ctx context.Context, filter repository.ContractFilter) ([]repository.ContractListItem, error)
	ListMilestones(ctx context.Context, contractID uuid.UUID) ([]models.Milestone, error)
}

// ContractService отдаёт контракты участникам.
type ContractService struct {
	contracts ContractRepo
}

// ContractDetails — контракт вместе с полным списком этапов.
type ContractDetails struct {
	Contract   *models.Contract
	Milestones []models.Milestone
}

// NewContractService создаёт сервис контрактов.
func NewContractService(contracts ContractRepo) *ContractService {
	return &ContractService{contracts: contracts}
}

// ListContracts возвращает контракты пользователя c опциональными
// фильтрами по статусу и роли в контракте.
func (s *ContractService) ListContracts(ctx context.Context, userID uuid.UUID, status, role string) ([]repository.ContractListItem, error) {
	if status != "" {
		if _, ok := models.ValidContractStatuses[status]; !ok {
			return nil, apperror.New(apperror.ErrCodeInvalidRequest, "недопустимый статус контракта")
		}
	}
	if role != "" && role != models.RoleClient && role != models.RoleFreelancer {
		return nil, apperror.New(apperror.ErrCodeInvalidRequest, "недопустимая роль в контракте")
	}

	return s.contracts.ListForUser(ctx, repository.ContractFilter{
		UserID: userID,
		Status: status,
		Role:   role,
	})
}

// GetContract возвращает контракт с этапами. Доступ только участникам.
func (s *ContractService) GetContract(ctx context.Context, contractID, actingUserID uuid.UUID) (*ContractDetails, error) {
	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, repository.ErrContractNotFound) {
			return nil, apperror.ErrContractNotFound
		}
		return nil, err
	}

	if contract.ClientID != actingUserID && contract.FreelancerID != actingUserID {
		return nil, apperror.ErrForbidden
	}

	milestones, err := s.contracts.ListMilestones(ctx, contractID)
	if err != nil {
		return nil, err
	}

	return &ContractDetails{Contract: contract, Milestones: milestones}, nil
}
