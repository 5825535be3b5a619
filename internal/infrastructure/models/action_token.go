package models

import (
	"time"

	"github.com/google/uuid"
)

type ActionToken struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ActionName string    `gorm:"type:varchar(50);not null"`
	CreatedAt  time.Time
	ExpiresAt  time.Time `gorm:"not null;index"`
	ExecutedAt *time.Time
}

func (ActionToken) TableName() string {
	return "action_tokens"
}
