package services

import (
	"context"
	"errors"
	"time"

	"allvoter/internal/models"

	"gorm.io/gorm"
)

// VoteService owns the one-shot vote transition.
type VoteService struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewVoteService(gdb *gorm.DB, timeout time.Duration) *VoteService {
	return &VoteService{db: gdb, timeout: timeout}
}

// VoteReceipt is the observable result of a successful vote.
type VoteReceipt struct {
	VoterID     uint `json:"voterId"`
	CandidateID uint `json:"candidateId"`
	NewCount    uint `json:"newCount"`
}

// CastVote flips the voter's one-shot flag and increments the candidate's
// counter as a single transaction. The flag update is conditional on
// is_voted still being false at write time, so two racing calls for the
// same voter commit exactly one increment: the loser's update matches zero
// rows and surfaces ErrAlreadyVoted. The counter increment runs as a SQL
// expression, never a read-modify-write in Go, so racing votes for the same
// candidate from different voters cannot lose updates. This holds across
// service instances because both writes are resolved by the database.
func (s *VoteService) CastVote(ctx context.Context, voterID, candidateID uint) (*VoteReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	receipt := &VoteReceipt{VoterID: voterID, CandidateID: candidateID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var voter models.User
		if err := tx.First(&voter, voterID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVoterNotFound
			}
			return storageErr(err)
		}
		if voter.IsAdmin() {
			return ErrAdminCannotVote
		}
		if voter.IsVoted {
			return ErrAlreadyVoted
		}

		var candidate models.Candidate
		if err := tx.First(&candidate, candidateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCandidateNotFound
			}
			return storageErr(err)
		}

		// Compare-and-swap on the one-shot flag.
		res := tx.Model(&models.User{}).
			Where("id = ? AND is_voted = ?", voterID, false).
			UpdateColumn("is_voted", true)
		if res.Error != nil {
			return storageErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyVoted
		}

		if err := tx.Model(&models.Candidate{}).
			Where("id = ?", candidateID).
			UpdateColumn("vote_count", gorm.Expr("vote_count + ?", 1)).
			Error; err != nil {
			return storageErr(err)
		}

		// Post-increment count as seen by this transaction.
		if err := tx.First(&candidate, candidateID).Error; err != nil {
			return storageErr(err)
		}
		receipt.NewCount = candidate.VoteCount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// HasVoted reports the voter's one-shot flag. Clients that time out on
// CastVote re-query this to learn the true outcome instead of retrying
// blindly.
func (s *VoteService) HasVoted(ctx context.Context, voterID uint) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var voter models.User
	if err := s.db.WithContext(ctx).First(&voter, voterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrVoterNotFound
		}
		return false, storageErr(err)
	}
	return voter.IsVoted, nil
}
