package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/freelance-market-backend/internal/models"
)

// ErrProjectNotFound возвращается, когда проект не существует.
var ErrProjectNotFound = errors.New("project not found")

// ProjectRepository отвечает за работу с проектами.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository создаёт новый экземпляр.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ProjectFilter задаёт параметры выборки проектов.
type ProjectFilter struct {
	Status    string
	Category  string
	MinBudget *decimal.Decimal
	MaxBudget *decimal.Decimal
	Skills    []string
}

// ProjectWithMeta — проект с именем заказчика и количеством предложений.
type ProjectWithMeta struct {
	models.Project
	ClientName     string `db:"client_name"`
	ProposalsCount int    `db:"proposals_count"`
}

// Create сохраняет проект.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (client_id, title, description, category, budget_min, budget_max, deadline, status, required_skills)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		project.ClientID, project.Title, project.Description, project.Category,
		project.BudgetMin, project.BudgetMax, project.Deadline, project.Status, project.RequiredSkills,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("project repository: create %w", err)
	}
	return nil
}

// GetByID возвращает проект по идентификатору.
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.GetContext(ctx, &project, `SELECT * FROM projects WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("project repository: get by id %w", err)
	}
	return &project, nil
}

// List возвращает проекты по фильтру, новые первыми.
func (r *ProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]ProjectWithMeta, error) {
	conditions := []string{"p.status = $1"}
	args := []interface{}{filter.Status}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("LOWER(p.category) = LOWER($%d)", len(args)))
	}
	// Фильтры по бюджету трактуются как пересечение диапазонов:
	// min_budget отсекает проекты с потолком ниже запрошенного минимума.
	if filter.MinBudget != nil {
		args = append(args, *filter.MinBudget)
		conditions = append(conditions, fmt.Sprintf("p.budget_max >= $%d", len(args)))
	}
	if filter.MaxBudget != nil {
		args = append(args, *filter.MaxBudget)
		conditions = append(conditions, fmt.Sprintf("p.budget_min <= $%d", len(args)))
	}
	if len(filter.Skills) > 0 {
		args = append(args, pq.Array(filter.Skills))
		conditions = append(conditions, fmt.Sprintf("p.required_skills && $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT p.*, u.name AS client_name,
		       (SELECT COUNT(*) FROM proposals pr WHERE pr.project_id = p.id) AS proposals_count
		FROM projects p
		JOIN users u ON u.id = p.client_id
		WHERE %s
		ORDER BY p.created_at DESC
	`, strings.Join(conditions, " AND "))

	var projects []ProjectWithMeta
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("project repository: list %w", err)
	}
	return projects, nil
}
