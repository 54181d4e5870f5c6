package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleParent  = "parent"
)

// ErrInvalidRole is returned by the create hook for a role outside the known set.
var ErrInvalidRole = errors.New("invalid user role")

// User представляє зареєстрованого студента або батьків.
// Студенти пропонують репетиторство, батьки шукають репетитора для дитини.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Role       string    `gorm:"type:varchar(16);not null;index" json:"role"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	Phone      string    `gorm:"type:varchar(32);not null;uniqueIndex" json:"phone"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash
	School     string    `gorm:"type:varchar(100)" json:"school,omitempty"`
	Major      string    `gorm:"type:varchar(100)" json:"major,omitempty"`
	EnrollYear int       `json:"enroll_year,omitempty"`
	Verified   bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// BeforeCreate: хук GORM перед вставкою запису.
// Нормалізує телефон та відхиляє невідомі ролі.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	u.Phone = strings.TrimSpace(u.Phone)
	if !ValidRole(u.Role) {
		return ErrInvalidRole
	}
	return
}

// ValidRole reports whether role is one of the registered roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleParent
}
