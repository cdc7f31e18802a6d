package handlers

import (
	"errors"
	"net/http"

	"allvoter/internal/middleware"
	"allvoter/internal/models"
	"allvoter/internal/services"
	"allvoter/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CandidateHandler struct {
	db    *gorm.DB
	votes *services.VoteService
	tally *services.TallyService
}

func NewCandidateHandler(gdb *gorm.DB, votes *services.VoteService, tally *services.TallyService) *CandidateHandler {
	return &CandidateHandler{db: gdb, votes: votes, tally: tally}
}

// List handles GET /candidate
func (h *CandidateHandler) List(c *gin.Context) {
	var candidates []models.Candidate
	if err := h.db.WithContext(c.Request.Context()).
		Order("id ASC").
		Find(&candidates).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// Create handles POST /candidate (admin only)
func (h *CandidateHandler) Create(c *gin.Context) {
	var input struct {
		Name  string `json:"name" binding:"required"`
		Party string `json:"party" binding:"required"`
		Age   int    `json:"age" binding:"required,gte=18"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	candidate := models.Candidate{
		Name:  input.Name,
		Party: input.Party,
		Age:   input.Age,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&candidate).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": candidate})
}

// Update handles PUT /candidate/:id (admin only)
func (h *CandidateHandler) Update(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	var candidate models.Candidate
	if err := h.db.WithContext(c.Request.Context()).First(&candidate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, services.ErrCandidateNotFound)
			return
		}
		fail(c, err)
		return
	}

	var input struct {
		Name  string `json:"name" binding:"required"`
		Party string `json:"party" binding:"required"`
		Age   int    `json:"age" binding:"required,gte=18"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	candidate.Name = input.Name
	candidate.Party = input.Party
	candidate.Age = input.Age
	if err := h.db.WithContext(c.Request.Context()).Save(&candidate).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": candidate})
}

// Delete handles DELETE /candidate/:id (admin only). Deletion carries no
// cascade guard: elections referencing the candidate keep their reference.
func (h *CandidateHandler) Delete(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	var candidate models.Candidate
	if err := h.db.WithContext(c.Request.Context()).First(&candidate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, services.ErrCandidateNotFound)
			return
		}
		fail(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&candidate).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "candidate deleted"})
}

// Vote handles GET and POST /candidate/vote/:id. The identity comes from the
// auth middleware, never the payload.
func (h *CandidateHandler) Vote(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	candidateID := utils.StringToUint(c.Param("id"))
	receipt, err := h.votes.CastVote(c.Request.Context(), user.ID, candidateID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vote recorded successfully",
		"votes":   receipt.NewCount,
	})
}

// VoteCount handles GET /candidate/vote/count
func (h *CandidateHandler) VoteCount(c *gin.Context) {
	counts, err := h.tally.VoteCounts(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
