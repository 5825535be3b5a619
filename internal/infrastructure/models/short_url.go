package models

import (
	"time"

	"github.com/google/uuid"
)

type ShortURL struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShortCode string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	LongURL   string    `gorm:"type:text;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ShortURL) TableName() string {
	return "short_urls"
}
