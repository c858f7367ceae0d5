package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"patternchat/internal/app"
	"patternchat/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type TurnRequest struct {
	Message string `json:"message"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) Turn(c *gin.Context) {
	var req TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	reply, err := h.chatService.HandleTurn(c.Request.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmptyMessage):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrResolution):
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "resolve reply failed")
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "persist message failed")
		}
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 0)

	history, err := h.chatService.GetHistory(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get history failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": history.Messages,
		"pagination": gin.H{
			"currentPage":   history.CurrentPage,
			"totalPages":    history.TotalPages,
			"totalMessages": history.TotalMessages,
		},
	})
}

func (h *ChatHandler) ClearHistory(c *gin.Context) {
	deleted, err := h.chatService.ClearHistory(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "clear history failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "history cleared",
		"deleted": deleted,
	})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
