package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-market-backend/internal/models"
	"github.com/ignatzorin/freelance-market-backend/internal/repository/common"
)

// Ошибки уровня репозитория контрактов.
var (
	ErrContractNotFound      = errors.New("contract not found")
	ErrMilestoneNotFound     = errors.New("milestone not found")
	ErrMilestoneNotPending   = errors.New("milestone is not pending")
	ErrMilestoneNotSubmitted = errors.New("milestone is not submitted")
)

// ContractRepository отвечает за работу с контрактами и их этапами.
type ContractRepository struct {
	db *sqlx.DB
}

// NewContractRepository создаёт новый экземпляр.
func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// ContractFilter задаёт параметры выборки контрактов пользователя.
// Role сужает выборку до контрактов, где пользователь выступает
// заказчиком или исполнителем; пустая строка означает обе роли.
type ContractFilter struct {
	UserID uuid.UUID
	Status string
	Role   string
}

// ContractListItem — строка списка контрактов с проекцией текущего этапа.
type ContractListItem struct {
	models.Contract
	ProjectTitle   string `db:"project_title"`
	ClientName     string `db:"client_name"`
	FreelancerName string `db:"freelancer_name"`

	CurrentMilestoneID      *uuid.UUID `db:"cm_id"`
	CurrentMilestoneTitle   *string    `db:"cm_title"`
	CurrentMilestoneStatus  *string    `db:"cm_status"`
	CurrentMilestoneDueDate *time.Time `db:"cm_due_date"`
}

// MilestoneWithContract — этап вместе с участниками и проектом контракта.
type MilestoneWithContract struct {
	models.Milestone
	ContractClientID     uuid.UUID `db:"contract_client_id"`
	ContractFreelancerID uuid.UUID `db:"contract_freelancer_id"`
	ContractProjectID    uuid.UUID `db:"contract_project_id"`
	ContractStatus       string    `db:"contract_status"`
}

// GetByID возвращает контракт по идентификатору.
func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := r.db.GetContext(ctx, &contract, `SELECT * FROM contracts WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("contract repository: get by id %w", err)
	}
	return &contract, nil
}

// ListForUser возвращает контракты пользователя, свежие первыми.
// Текущий этап (первый непринятый по order_index) вычисляется на чтении
// LATERAL-подзапросом и нигде не хранится.
func (r *ContractRepository) ListForUser(ctx context.Context, filter ContractFilter) ([]ContractListItem, error) {
	conditions := make([]string, 0, 2)
	args := []interface{}{filter.UserID}

	switch filter.Role {
	case models.RoleClient:
		conditions = append(conditions, "c.client_id = $1")
	case models.RoleFreelancer:
		conditions = append(conditions, "c.freelancer_id = $1")
	default:
		conditions = append(conditions, "(c.client_id = $1 OR c.freelancer_id = $1)")
	}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT c.*,
		       p.title  AS project_title,
		       cu.name  AS client_name,
		       fu.name  AS freelancer_name,
		       cm.id       AS cm_id,
		       cm.title    AS cm_title,
		       cm.status   AS cm_status,
		       cm.due_date AS cm_due_date
		FROM contracts c
		JOIN projects p ON p.id = c.project_id
		JOIN users cu ON cu.id = c.client_id
		JOIN users fu ON fu.id = c.freelancer_id
		LEFT JOIN LATERAL (
			SELECT m.id, m.title, m.status, m.due_date
			FROM milestones m
			WHERE m.contract_id = c.id AND m.status <> 'approved'
			ORDER BY m.order_index ASC
			LIMIT 1
		) cm ON TRUE
		WHERE %s
		ORDER BY c.started_at DESC
	`, strings.Join(conditions, " AND "))

	var contracts []ContractListItem
	if err := r.db.SelectContext(ctx, &contracts, query, args...); err != nil {
		return nil, fmt.Errorf("contract repository: list for user %w", err)
	}
	return contracts, nil
}

// ListMilestones возвращает этапы контракта в порядке order_index.
func (r *ContractRepository) ListMilestones(ctx context.Context, contractID uuid.UUID) ([]models.Milestone, error) {
	var milestones []models.Milestone
	query := `SELECT * FROM milestones WHERE contract_id = $1 ORDER BY order_index ASC`
	if err := r.db.SelectContext(ctx, &milestones, query, contractID); err != nil {
		return nil, fmt.Errorf("contract repository: list milestones %w", err)
	}
	return milestones, nil
}

// GetMilestoneWithContract возвращает этап вместе с данными контракта,
// нужными для проверки прав и каскада.
func (r *ContractRepository) GetMilestoneWithContract(ctx context.Context, milestoneID uuid.UUID) (*MilestoneWithContract, error) {
	query := `
		SELECT m.*,
		       c.client_id     AS contract_client_id,
		       c.freelancer_id AS contract_freelancer_id,
		       c.project_id    AS contract_project_id,
		       c.status        AS contract_status
		FROM milestones m
		JOIN contracts c ON c.id = m.contract_id
		WHERE m.id = $1
	`
	var milestone MilestoneWithContract
	if err := r.db.GetContext(ctx, &milestone, query, milestoneID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMilestoneNotFound
		}
		return nil, fmt.Errorf("contract repository: get milestone %w", err)
	}
	return &milestone, nil
}

// ListStatusesBelow возвращает статусы всех этапов контракта
// с order_index строго меньше заданного.
func (r *ContractRepository) ListStatusesBelow(ctx context.Context, contractID uuid.UUID, orderIndex int) ([]string, error) {
	var statuses []string
	query := `SELECT status FROM milestones WHERE contract_id = $1 AND order_index < $2`
	if err := r.db.SelectContext(ctx, &statuses, query, contractID, orderIndex); err != nil {
		return nil, fmt.Errorf("contract repository: list statuses below %w", err)
	}
	return statuses, nil
}

// SubmitMilestone переводит этап из pending в submitted условным UPDATE.
// Ноль затронутых строк означает, что статус уже ушёл вперёд
// (в том числе конкурентным запросом).
func (r *ContractRepository) SubmitMilestone(ctx context.Context, milestoneID uuid.UUID) (*models.Milestone, error) {
	query := `
		UPDATE milestones
		SET status = $1, submitted_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING *
	`
	var milestone models.Milestone
	err := r.db.QueryRowxContext(ctx, query,
		models.MilestoneStatusSubmitted, milestoneID, models.MilestoneStatusPending,
	).StructScan(&milestone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMilestoneNotPending
		}
		return nil, fmt.Errorf("contract repository: submit milestone %w", err)
	}
	return &milestone, nil
}

// ApproveMilestone принимает этап и в той же транзакции выполняет каскад
// завершения: если после принятия все этапы контракта в статусе approved,
// контракт и проект переводятся в completed. Подсчёт идёт уже после записи
// принятого этапа, поэтому он входит в число approved.
//
// Возвращает обновлённый этап и признак завершения контракта.
func (r *ContractRepository) ApproveMilestone(ctx context.Context, milestoneID, contractID, projectID uuid.UUID) (*models.Milestone, bool, error) {
	var milestone models.Milestone
	completed := false

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE milestones
			SET status = $1, approved_at = NOW()
			WHERE id = $2 AND status = $3
			RETURNING *
		`
		err := tx.QueryRowxContext(ctx, query,
			models.MilestoneStatusApproved, milestoneID, models.MilestoneStatusSubmitted,
		).StructScan(&milestone)
		if err != nil {
			// Статус submitted потребляется ровно одним принятием: проигравший
			// конкурентный запрос получает эту ошибку.
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMilestoneNotSubmitted
			}
			return fmt.Errorf("contract repository: approve milestone %w", err)
		}

		var total, approved int
		if err := tx.GetContext(ctx, &total,
			`SELECT COUNT(*) FROM milestones WHERE contract_id = $1`, contractID); err != nil {
			return fmt.Errorf("contract repository: count milestones %w", err)
		}
		if err := tx.GetContext(ctx, &approved,
			`SELECT COUNT(*) FROM milestones WHERE contract_id = $1 AND status = $2`,
			contractID, models.MilestoneStatusApproved); err != nil {
			return fmt.Errorf("contract repository: count approved %w", err)
		}

		if total == approved {
			if _, err := tx.ExecContext(ctx,
				`UPDATE contracts SET status = $1, completed_at = NOW() WHERE id = $2`,
				models.ContractStatusCompleted, contractID); err != nil {
				return fmt.Errorf("contract repository: complete contract %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2`,
				models.ProjectStatusCompleted, projectID); err != nil {
				return fmt.Errorf("contract repository: complete project %w", err)
			}
			completed = true
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &milestone, completed, nil
}
