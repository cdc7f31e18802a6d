package models

import (
	"time"
)

type Candidate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Party     string    `gorm:"not null" json:"party"`
	Age       int       `gorm:"not null" json:"age"`
	VoteCount uint      `gorm:"default:0;not null" json:"voteCount"` // mutated only via the vote transaction's SQL increment
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
