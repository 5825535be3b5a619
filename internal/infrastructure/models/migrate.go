package models

import "gorm.io/gorm"

// All lists every persisted model in migration order
func All() []interface{} {
	return []interface{}{&User{}, &ActionToken{}, &ShortURL{}}
}

// AutoMigrate creates or updates the tables and indexes of every model
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
