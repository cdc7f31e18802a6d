package services

import (
	"context"
	"errors"
)

// Typed failures returned by the services. Handlers own the translation to
// HTTP statuses; nothing below this package leaks raw storage errors.
var (
	ErrInvalidCredentials = errors.New("invalid aadhaar number or password")

	ErrVoterNotFound   = errors.New("voter not found")
	ErrAdminCannotVote = errors.New("admin is not allowed to vote")
	ErrAlreadyVoted    = errors.New("you have already voted")

	ErrCandidateNotFound = errors.New("candidate not found")

	ErrElectionNotFound     = errors.New("election not found")
	ErrElectionNotStartable = errors.New("election cannot be started; ensure it has candidates and dates are valid")
	ErrElectionCompleted    = errors.New("cannot modify completed elections")
	ErrAlreadyCompleted     = errors.New("election is already completed")
	ErrElectionActive       = errors.New("cannot delete active elections; end them first")

	ErrAadhaarTaken = errors.New("aadhaar number already registered")
	ErrAdminExists  = errors.New("an admin account already exists")

	ErrEndBeforeStart    = errors.New("end date must be after start date")
	ErrInvalidCandidates = errors.New("one or more candidate IDs are invalid")

	ErrStorageUnavailable = errors.New("datastore unavailable, retry later")
)

// storageErr maps timeouts and cancellation to the retryable
// ErrStorageUnavailable; anything else passes through for the handler's
// generic 500 path.
func storageErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrStorageUnavailable
	}
	return err
}
