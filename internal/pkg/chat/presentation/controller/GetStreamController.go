package controller

import (
	"net/http"
	"strconv"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// GetStreamController returns the merged message and notification log of a conversation.
type GetStreamController struct {
	Env
	UC *usecase.GetStreamUseCase
}

func NewGetStreamController(env Env) *GetStreamController {
	return &GetStreamController{Env: env, UC: usecase.NewGetStreamUseCase(env.Deps)}
}

// Handle accepts an optional limit keeping only the most recent entries.
func (h *GetStreamController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, err := h.decodeID(c.Param("chatId"))
		if err != nil {
			h.writeError(c, err)
			return
		}
		limit := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()
		out, err := h.UC.Execute(ctx, usecase.GetStreamInput{UserID: currentUser(c), ConversationID: chatID})
		if err != nil {
			h.writeError(c, err)
			return
		}
		entries := out.Entries
		if limit > 0 && len(entries) > limit {
			entries = entries[len(entries)-limit:]
		}
		p := presenter{codec: h.Deps.Codec, viewer: currentUser(c)}
		c.JSON(http.StatusOK, gin.H{
			"chat": p.conversation(out.Conversation),
			"logs": p.entries(entries),
		})
	}
}
