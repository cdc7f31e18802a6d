package models

import (
	"time"
)

type ElectionStatus string

const (
	ElectionDraft     ElectionStatus = "draft"
	ElectionActive    ElectionStatus = "active"
	ElectionCompleted ElectionStatus = "completed"
	ElectionCancelled ElectionStatus = "cancelled"
)

// ValidElectionStatus reports whether s is a member of the status enum.
func ValidElectionStatus(s ElectionStatus) bool {
	switch s {
	case ElectionDraft, ElectionActive, ElectionCompleted, ElectionCancelled:
		return true
	}
	return false
}

type Election struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	StartDate   time.Time      `gorm:"not null" json:"startDate"`
	EndDate     time.Time      `gorm:"not null" json:"endDate"`
	Status      ElectionStatus `gorm:"size:20;default:'draft';not null" json:"status"`
	Candidates  []Candidate    `gorm:"many2many:election_candidates" json:"candidates"`
	TotalVotes  uint           `gorm:"default:0;not null" json:"totalVotes"`
	CreatedByID uint           `gorm:"not null" json:"createdBy"` // admin provenance, not vote ownership
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// IsActive reports whether the election is running right now. Status and the
// time window can diverge: a window-expired election stays "active" until an
// admin ends it, so both are consulted here for read-time semantics only.
func (e *Election) IsActive() bool {
	now := time.Now()
	return e.Status == ElectionActive &&
		!now.Before(e.StartDate) &&
		!now.After(e.EndDate)
}

// CanStart reports whether a draft election is eligible for the draft→active
// transition: the start time has arrived, the end time is still ahead, and at
// least one candidate is attached.
func (e *Election) CanStart() bool {
	now := time.Now()
	return e.Status == ElectionDraft &&
		!e.StartDate.After(now) &&
		e.EndDate.After(now) &&
		len(e.Candidates) > 0
}

// IsTerminal reports whether the election reached a state that forbids
// further mutation.
func (e *Election) IsTerminal() bool {
	return e.Status == ElectionCompleted || e.Status == ElectionCancelled
}
