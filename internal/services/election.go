package services

import (
	"context"
	"errors"
	"time"

	"allvoter/internal/models"

	"gorm.io/gorm"
)

// ElectionService owns the election lifecycle state machine. Status never
// changes on its own: draft→active and →completed happen only through Start
// and End, even when the time window has already run out.
type ElectionService struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewElectionService(gdb *gorm.DB, timeout time.Duration) *ElectionService {
	return &ElectionService{db: gdb, timeout: timeout}
}

// CreateElectionInput carries the fields of a new draft election.
type CreateElectionInput struct {
	Title        string
	Description  string
	StartDate    time.Time
	EndDate      time.Time
	CandidateIDs []uint
}

// UpdateElectionInput carries optional edits; nil fields stay untouched.
type UpdateElectionInput struct {
	Title        *string
	Description  *string
	StartDate    *time.Time
	EndDate      *time.Time
	CandidateIDs *[]uint
	Status       *models.ElectionStatus
}

// Create makes a new draft election owned by the given admin.
func (s *ElectionService) Create(ctx context.Context, adminID uint, in CreateElectionInput) (*models.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if !in.EndDate.After(in.StartDate) {
		return nil, ErrEndBeforeStart
	}

	var election models.Election
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidates, err := lookupCandidates(tx, in.CandidateIDs)
		if err != nil {
			return err
		}

		election = models.Election{
			Title:       in.Title,
			Description: in.Description,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			Status:      models.ElectionDraft,
			Candidates:  candidates,
			CreatedByID: adminID,
		}
		if err := tx.Create(&election).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, election.ID)
}

// List returns all elections, newest first, with candidates preloaded.
func (s *ElectionService) List(ctx context.Context) ([]models.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var elections []models.Election
	if err := s.db.WithContext(ctx).
		Preload("Candidates").
		Order("created_at DESC").
		Find(&elections).Error; err != nil {
		return nil, storageErr(err)
	}
	return elections, nil
}

// Get returns one election with candidates preloaded.
func (s *ElectionService) Get(ctx context.Context, id uint) (*models.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var election models.Election
	if err := s.db.WithContext(ctx).
		Preload("Candidates").
		First(&election, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrElectionNotFound
		}
		return nil, storageErr(err)
	}
	return &election, nil
}

// ActiveNow returns elections whose status is active and whose time window
// covers the current moment, ordered by start date.
func (s *ElectionService) ActiveNow(ctx context.Context) ([]models.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now()
	var elections []models.Election
	if err := s.db.WithContext(ctx).
		Preload("Candidates").
		Where("status = ? AND start_date <= ? AND end_date >= ?", models.ElectionActive, now, now).
		Order("start_date ASC").
		Find(&elections).Error; err != nil {
		return nil, storageErr(err)
	}
	return elections, nil
}

// Update edits a non-terminal election. Date edits are checked against the
// other, unedited bound so the end > start invariant survives partial
// updates.
func (s *ElectionService) Update(ctx context.Context, id uint, in UpdateElectionInput) (*models.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var election models.Election
		if err := tx.First(&election, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrElectionNotFound
			}
			return storageErr(err)
		}
		if election.IsTerminal() {
			return ErrElectionCompleted
		}

		if in.Title != nil && *in.Title != "" {
			election.Title = *in.Title
		}
		if in.Description != nil {
			election.Description = *in.Description
		}
		// Each edited bound is checked against the other bound as it will
		// stand after the update, so partial edits cannot invert the window.
		start, end := election.StartDate, election.EndDate
		if in.StartDate != nil {
			start = *in.StartDate
		}
		if in.EndDate != nil {
			end = *in.EndDate
		}
		if !end.After(start) {
			return ErrEndBeforeStart
		}
		election.StartDate = start
		election.EndDate = end
		if in.Status != nil && models.ValidElectionStatus(*in.Status) {
			election.Status = *in.Status
		}

		if err := tx.Save(&election).Error; err != nil {
			return storageErr(err)
		}

		if in.CandidateIDs != nil {
			candidates, err := lookupCandidates(tx, *in.CandidateIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&election).Association("Candidates").Replace(&candidates); err != nil {
				return storageErr(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Start performs the draft→active transition, guarded by CanStart.
func (s *ElectionService) Start(ctx context.Context, id uint) (*models.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var election models.Election
		if err := tx.Preload("Candidates").First(&election, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrElectionNotFound
			}
			return storageErr(err)
		}
		if !election.CanStart() {
			return ErrElectionNotStartable
		}
		if err := tx.Model(&election).Update("status", models.ElectionActive).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// End marks an election completed. Ending twice fails with
// ErrAlreadyCompleted rather than silently succeeding.
func (s *ElectionService) End(ctx context.Context, id uint) (*models.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var election models.Election
		if err := tx.First(&election, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrElectionNotFound
			}
			return storageErr(err)
		}
		if election.Status == models.ElectionCompleted {
			return ErrAlreadyCompleted
		}
		if err := tx.Model(&election).Update("status", models.ElectionCompleted).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// AddCandidates attaches candidates to a non-terminal election,
// deduplicating against the existing set.
func (s *ElectionService) AddCandidates(ctx context.Context, id uint, candidateIDs []uint) (*models.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var election models.Election
		if err := tx.Preload("Candidates").First(&election, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrElectionNotFound
			}
			return storageErr(err)
		}
		if election.IsTerminal() {
			return ErrElectionCompleted
		}

		candidates, err := lookupCandidates(tx, candidateIDs)
		if err != nil {
			return err
		}

		existing := make(map[uint]bool, len(election.Candidates))
		for _, c := range election.Candidates {
			existing[c.ID] = true
		}
		var fresh []models.Candidate
		for _, c := range candidates {
			if !existing[c.ID] {
				fresh = append(fresh, c)
			}
		}
		if len(fresh) == 0 {
			return nil
		}
		if err := tx.Model(&election).Association("Candidates").Append(&fresh); err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// RemoveCandidate detaches one candidate from a non-terminal election.
func (s *ElectionService) RemoveCandidate(ctx context.Context, id, candidateID uint) (*models.Election, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var election models.Election
		if err := tx.First(&election, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrElectionNotFound
			}
			return storageErr(err)
		}
		if election.IsTerminal() {
			return ErrElectionCompleted
		}
		if err := tx.Model(&election).
			Association("Candidates").
			Delete(&models.Candidate{ID: candidateID}); err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an election. Active elections must be ended first.
func (s *ElectionService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var election models.Election
		if err := tx.First(&election, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrElectionNotFound
			}
			return storageErr(err)
		}
		if election.Status == models.ElectionActive {
			return ErrElectionActive
		}
		if err := tx.Model(&election).Association("Candidates").Clear(); err != nil {
			return storageErr(err)
		}
		if err := tx.Delete(&election).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
}

// lookupCandidates resolves IDs to rows, failing if any ID is unknown.
func lookupCandidates(tx *gorm.DB, ids []uint) ([]models.Candidate, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var candidates []models.Candidate
	if err := tx.Where("id IN ?", unique).Find(&candidates).Error; err != nil {
		return nil, storageErr(err)
	}
	if len(candidates) != len(unique) {
		return nil, ErrInvalidCandidates
	}
	return candidates, nil
}
