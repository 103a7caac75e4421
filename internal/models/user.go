package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// User описывает пользователя платформы: заказчика или исполнителя.
type User struct {
	ID           uuid.UUID           `db:"id" json:"id"`
	Name         string              `db:"name" json:"name"`
	Email        string              `db:"email" json:"email"`
	PasswordHash string              `db:"password_hash" json:"-"`
	Role         string              `db:"role" json:"role"`
	Bio          *string             `db:"bio" json:"bio,omitempty"`
	Skills       pq.StringArray      `db:"skills" json:"skills"`
	HourlyRate   decimal.NullDecimal `db:"hourly_rate" json:"hourly_rate,omitempty"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}

// Session представляет сохранённую refresh-сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
