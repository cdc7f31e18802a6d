package handlers

import (
	"errors"
	"log"
	"net/http"

	"allvoter/internal/services"

	"github.com/gin-gonic/gin"
)

// fail is the single translation point from typed service failures to HTTP
// status + JSON body. Anything unrecognized is logged and reported as a
// generic 500 so storage errors never reach clients.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrVoterNotFound),
		errors.Is(err, services.ErrCandidateNotFound),
		errors.Is(err, services.ErrElectionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyVoted),
		errors.Is(err, services.ErrAdminCannotVote):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrElectionNotStartable),
		errors.Is(err, services.ErrElectionCompleted),
		errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrElectionActive),
		errors.Is(err, services.ErrEndBeforeStart),
		errors.Is(err, services.ErrInvalidCandidates),
		errors.Is(err, services.ErrAadhaarTaken),
		errors.Is(err, services.ErrAdminExists):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrStorageUnavailable),
		errors.Is(err, services.ErrChatNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, services.ErrChatUpstream):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		c.JSON(status, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// badRequest reports a binding/validation failure.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
