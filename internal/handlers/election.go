package handlers

import (
	"net/http"
	"time"

	"allvoter/internal/middleware"
	"allvoter/internal/models"
	"allvoter/internal/services"
	"allvoter/internal/utils"

	"github.com/gin-gonic/gin"
)

type ElectionHandler struct {
	elections *services.ElectionService
	tally     *services.TallyService
}

func NewElectionHandler(elections *services.ElectionService, tally *services.TallyService) *ElectionHandler {
	return &ElectionHandler{elections: elections, tally: tally}
}

// Create handles POST /election (admin only)
func (h *ElectionHandler) Create(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description"`
		StartDate   time.Time `json:"startDate" binding:"required"`
		EndDate     time.Time `json:"endDate" binding:"required"`
		Candidates  []uint    `json:"candidates"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	election, err := h.elections.Create(c.Request.Context(), admin.ID, services.CreateElectionInput{
		Title:        input.Title,
		Description:  input.Description,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		CandidateIDs: input.Candidates,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, election)
}

// List handles GET /election
func (h *ElectionHandler) List(c *gin.Context) {
	elections, err := h.elections.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, elections)
}

// Get handles GET /election/:id
func (h *ElectionHandler) Get(c *gin.Context) {
	election, err := h.elections.Get(c.Request.Context(), utils.StringToUint(c.Param("id")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, election)
}

// Active handles GET /election/status/active
func (h *ElectionHandler) Active(c *gin.Context) {
	elections, err := h.elections.ActiveNow(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, elections)
}

// Update handles PUT /election/:id (admin only)
func (h *ElectionHandler) Update(c *gin.Context) {
	var input struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		StartDate   *time.Time `json:"startDate"`
		EndDate     *time.Time `json:"endDate"`
		Candidates  *[]uint    `json:"candidates"`
		Status      *string    `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	update := services.UpdateElectionInput{
		Title:        input.Title,
		Description:  input.Description,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		CandidateIDs: input.Candidates,
	}
	if input.Status != nil {
		status := models.ElectionStatus(*input.Status)
		update.Status = &status
	}

	election, err := h.elections.Update(c.Request.Context(), utils.StringToUint(c.Param("id")), update)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, election)
}

// Start handles POST /election/:id/start (admin only)
func (h *ElectionHandler) Start(c *gin.Context) {
	election, err := h.elections.Start(c.Request.Context(), utils.StringToUint(c.Param("id")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Election started successfully", "election": election})
}

// End handles POST /election/:id/end (admin only)
func (h *ElectionHandler) End(c *gin.Context) {
	election, err := h.elections.End(c.Request.Context(), utils.StringToUint(c.Param("id")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Election ended successfully", "election": election})
}

// AddCandidates handles POST /election/:id/candidates (admin only)
func (h *ElectionHandler) AddCandidates(c *gin.Context) {
	var input struct {
		CandidateIDs []uint `json:"candidateIds" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	election, err := h.elections.AddCandidates(c.Request.Context(), utils.StringToUint(c.Param("id")), input.CandidateIDs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Candidates added successfully", "election": election})
}

// RemoveCandidate handles DELETE /election/:id/candidates/:candidateId (admin only)
func (h *ElectionHandler) RemoveCandidate(c *gin.Context) {
	election, err := h.elections.RemoveCandidate(c.Request.Context(),
		utils.StringToUint(c.Param("id")),
		utils.StringToUint(c.Param("candidateId")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Candidate removed successfully", "election": election})
}

// Delete handles DELETE /election/:id (admin only)
func (h *ElectionHandler) Delete(c *gin.Context) {
	if err := h.elections.Delete(c.Request.Context(), utils.StringToUint(c.Param("id"))); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Election deleted successfully"})
}

// Results handles GET /election/:id/results
func (h *ElectionHandler) Results(c *gin.Context) {
	results, err := h.tally.ElectionResults(c.Request.Context(), utils.StringToUint(c.Param("id")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
