package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contract — договор между заказчиком и исполнителем, создаётся ровно один раз
// при принятии предложения и владеет упорядоченным набором этапов.
type Contract struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	ProjectID    uuid.UUID       `db:"project_id" json:"project_id"`
	ProposalID   uuid.UUID       `db:"proposal_id" json:"proposal_id"`
	ClientID     uuid.UUID       `db:"client_id" json:"client_id"`
	FreelancerID uuid.UUID       `db:"freelancer_id" json:"freelancer_id"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status       string          `db:"status" json:"status"`
	StartedAt    time.Time       `db:"started_at" json:"started_at"`
	CompletedAt  *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
}

// Milestone — этап контракта. order_index назначается при создании контракта
// (1..n без пропусков) и не меняется; этапы сдаются и принимаются строго
// по порядку.
type Milestone struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	ContractID  uuid.UUID       `db:"contract_id" json:"contract_id"`
	Title       string          `db:"title" json:"title"`
	Description *string         `db:"description" json:"description,omitempty"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	DueDate     time.Time       `db:"due_date" json:"-"`
	OrderIndex  int             `db:"order_index" json:"order_index"`
	Status      string          `db:"status" json:"status"`
	SubmittedAt *time.Time      `db:"submitted_at" json:"submitted_at,omitempty"`
	ApprovedAt  *time.Time      `db:"approved_at" json:"approved_at,omitempty"`
}
