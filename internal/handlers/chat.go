package handlers

import (
	"net/http"

	"allvoter/internal/services"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Chat handles POST /gemini/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var input struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	reply, err := h.chat.Chat(c.Request.Context(), input.Message)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": reply})
}
