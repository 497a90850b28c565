package models

import (
	"time"
)

// User roles
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents a platform account (student or admin)
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role      string    `gorm:"size:20;default:student" json:"role"` // student, admin
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
