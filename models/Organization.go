package models

import (
	"time"

	"gorm.io/gorm"
)

// Organization is the tenant boundary. Every space, user and booking
// belongs to exactly one organization.
type Organization struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"not null"`
	Email   string `json:"email"`
	Address string `json:"address"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Users []User `json:"users" gorm:"foreignKey:OrgID"`
}
