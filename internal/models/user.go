package models

import (
	"time"
)

type Role string

const (
	RoleVoter Role = "voter"
	RoleAdmin Role = "admin"
)

type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Age           int       `gorm:"not null" json:"age"` // >= 18, enforced at signup
	Email         string    `json:"email,omitempty"`
	Mobile        string    `gorm:"size:15" json:"mobile,omitempty"`
	Address       string    `gorm:"not null" json:"address"`
	AadhaarNumber string    `gorm:"uniqueIndex;size:12;not null" json:"aadhaarNumber"` // 12-digit national ID
	Password      string    `gorm:"not null" json:"-"`                                 // bcrypt hash
	Role          Role      `gorm:"size:20;default:'voter';not null" json:"role"`
	IsVoted       bool      `gorm:"default:false;not null" json:"isVoted"` // one-shot, flipped only by the vote transaction
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
