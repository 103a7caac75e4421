package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/freelance-market-backend/internal/models"
	"github.com/ignatzorin/freelance-market-backend/internal/repository/common"
)

// Ошибки уровня репозитория предложений.
var (
	ErrProposalNotFound         = errors.New("proposal not found")
	ErrProposalExists           = errors.New("proposal already exists for this project and freelancer")
	ErrProposalAlreadyProcessed = errors.New("proposal is not pending anymore")
)

// ProposalRepository отвечает за работу с предложениями, включая
// атомарное принятие предложения с созданием контракта и этапов.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository создаёт новый экземпляр.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// ProposalWithFreelancer — предложение с именем и навыками исполнителя.
type ProposalWithFreelancer struct {
	models.Proposal
	FreelancerName   string         `db:"freelancer_name"`
	FreelancerSkills pq.StringArray `db:"freelancer_skills"`
}

// Create сохраняет предложение. Пара (project_id, freelancer_id) уникальна.
func (r *ProposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	query := `
		INSERT INTO proposals (project_id, freelancer_id, cover_letter, proposed_price, estimated_duration, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		proposal.ProjectID, proposal.FreelancerID, proposal.CoverLetter,
		proposal.ProposedPrice, proposal.EstimatedDuration, proposal.Status,
	).Scan(&proposal.ID, &proposal.CreatedAt, &proposal.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err, "proposals_project_id_freelancer_id_key") {
			return ErrProposalExists
		}
		return fmt.Errorf("proposal repository: create %w", err)
	}
	return nil
}

// GetByID возвращает предложение по идентификатору.
func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := r.db.GetContext(ctx, &proposal, `SELECT * FROM proposals WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: get by id %w", err)
	}
	return &proposal, nil
}

// ListByProject возвращает предложения проекта, новые первыми.
func (r *ProposalRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]ProposalWithFreelancer, error) {
	query := `
		SELECT p.*, u.name AS freelancer_name, u.skills AS freelancer_skills
		FROM proposals p
		JOIN users u ON u.id = p.freelancer_id
		WHERE p.project_id = $1
		ORDER BY p.created_at DESC
	`
	var proposals []ProposalWithFreelancer
	if err := r.db.SelectContext(ctx, &proposals, query, projectID); err != nil {
		return nil, fmt.Errorf("proposal repository: list by project %w", err)
	}
	return proposals, nil
}

// Accept выполняет принятие предложения одной транзакцией:
// перевод предложения в accepted, отклонение остальных предложений проекта,
// перевод проекта в in_progress, создание контракта и его этапов.
// Возвращает исполнителей, чьи предложения были отклонены.
//
// Статус предложения перепроверяется условным UPDATE уже внутри транзакции:
// при конкурентном принятии проигравший получает ErrProposalAlreadyProcessed,
// а состояние базы остаётся нетронутым.
func (r *ProposalRepository) Accept(ctx context.Context, proposal *models.Proposal, contract *models.Contract, milestones []models.Milestone) ([]uuid.UUID, error) {
	var rejected []uuid.UUID
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE proposals SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
			models.ProposalStatusAccepted, proposal.ID, models.ProposalStatusPending,
		)
		if err != nil {
			return fmt.Errorf("proposal repository: accept %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("proposal repository: accept rows affected %w", err)
		}
		if affected == 0 {
			return ErrProposalAlreadyProcessed
		}

		// Отклоняются все прочие предложения проекта независимо от их
		// текущего статуса; пока контракт уникален на проект, это те же
		// pending-строки.
		rejected = rejected[:0]
		if err := tx.SelectContext(ctx, &rejected,
			`UPDATE proposals SET status = $1, updated_at = NOW()
			 WHERE project_id = $2 AND id <> $3
			 RETURNING freelancer_id`,
			models.ProposalStatusRejected, proposal.ProjectID, proposal.ID,
		); err != nil {
			return fmt.Errorf("proposal repository: reject siblings %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2`,
			models.ProjectStatusInProgress, proposal.ProjectID,
		); err != nil {
			return fmt.Errorf("proposal repository: update project status %w", err)
		}

		contractQuery := `
			INSERT INTO contracts (project_id, proposal_id, client_id, freelancer_id, total_amount, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, started_at
		`
		err = tx.QueryRowxContext(ctx, contractQuery,
			contract.ProjectID, contract.ProposalID, contract.ClientID,
			contract.FreelancerID, contract.TotalAmount, contract.Status,
		).Scan(&contract.ID, &contract.StartedAt)
		if err != nil {
			// Гонка двух принятий разных предложений одного проекта упирается
			// в UNIQUE(project_id) на контрактах.
			if common.IsUniqueViolation(err, "") {
				return ErrProposalAlreadyProcessed
			}
			return fmt.Errorf("proposal repository: create contract %w", err)
		}

		milestoneQuery := `
			INSERT INTO milestones (contract_id, title, description, amount, due_date, order_index, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		for i := range milestones {
			m := &milestones[i]
			m.ContractID = contract.ID
			if err := tx.QueryRowxContext(ctx, milestoneQuery,
				m.ContractID, m.Title, m.Description, m.Amount, m.DueDate, m.OrderIndex, m.Status,
			).Scan(&m.ID); err != nil {
				return fmt.Errorf("proposal repository: create milestone %d %w", m.OrderIndex, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}
