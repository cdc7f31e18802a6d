package handlers

import (
	"net/http"

	"allvoter/internal/middleware"
	"allvoter/internal/models"
	"allvoter/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	auth *services.AuthService
}

func NewUserHandler(auth *services.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

// Signup handles POST /user/signup
func (h *UserHandler) Signup(c *gin.Context) {
	var input struct {
		Name          string `json:"name" binding:"required"`
		Age           int    `json:"age" binding:"required,gte=18"`
		Email         string `json:"email" binding:"omitempty,email"`
		Mobile        string `json:"mobile"`
		Address       string `json:"address" binding:"required"`
		AadhaarNumber string `json:"aadhaarNumber" binding:"required,len=12,numeric"`
		Password      string `json:"password" binding:"required,min=6"`
		Role          string `json:"role" binding:"omitempty,oneof=voter admin"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Name:          input.Name,
		Age:           input.Age,
		Email:         input.Email,
		Mobile:        input.Mobile,
		Address:       input.Address,
		AadhaarNumber: input.AadhaarNumber,
		Password:      input.Password,
		Role:          models.Role(input.Role),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": user, "token": token})
}

// Login handles POST /user/login
func (h *UserHandler) Login(c *gin.Context) {
	var input struct {
		AadhaarNumber string `json:"aadhaarNumber" binding:"required"`
		Password      string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	_, token, err := h.auth.Login(c.Request.Context(), input.AadhaarNumber, input.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Profile handles GET /user/profile
func (h *UserHandler) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword handles PUT /user/profile/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), user.ID, input.CurrentPassword, input.NewPassword); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
