package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema owned by the persistence adapters.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&userRecord{})
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           int64     `gorm:"primaryKey;autoIncrement:false;column:id"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }
