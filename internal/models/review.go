package models

import (
	"time"

	"github.com/google/uuid"
)

// Review — отзыв участника завершённого контракта о второй стороне.
// Пара (contract_id, reviewer_id) уникальна.
type Review struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ContractID uuid.UUID `db:"contract_id" json:"contract_id"`
	ReviewerID uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	ReviewedID uuid.UUID `db:"reviewed_id" json:"reviewed_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
