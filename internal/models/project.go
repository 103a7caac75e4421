package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Project описывает проект, размещённый заказчиком.
type Project struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	ClientID       uuid.UUID       `db:"client_id" json:"client_id"`
	Title          string          `db:"title" json:"title"`
	Description    string          `db:"description" json:"description"`
	Category       string          `db:"category" json:"category"`
	BudgetMin      decimal.Decimal `db:"budget_min" json:"budget_min"`
	BudgetMax      decimal.Decimal `db:"budget_max" json:"budget_max"`
	Deadline       time.Time       `db:"deadline" json:"-"`
	Status         string          `db:"status" json:"status"`
	RequiredSkills pq.StringArray  `db:"required_skills" json:"required_skills"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// Proposal представляет отклик фрилансера на проект.
// Пара (project_id, freelancer_id) уникальна, статус после accepted/rejected
// больше не меняется.
type Proposal struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	ProjectID         uuid.UUID       `db:"project_id" json:"project_id"`
	FreelancerID      uuid.UUID       `db:"freelancer_id" json:"freelancer_id"`
	CoverLetter       string          `db:"cover_letter" json:"cover_letter"`
	ProposedPrice     decimal.Decimal `db:"proposed_price" json:"proposed_price"`
	EstimatedDuration int             `db:"estimated_duration" json:"estimated_duration"`
	Status            string          `db:"status" json:"status"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}
