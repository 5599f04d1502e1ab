package controller

import (
	"net/http"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

type MarkReadController struct {
	Env
	UC *usecase.MarkReadUseCase
}

func NewMarkReadController(env Env) *MarkReadController {
	return &MarkReadController{Env: env, UC: usecase.NewMarkReadUseCase(env.Deps)}
}

func (h *MarkReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, err := h.decodeID(c.Param("chatId"))
		if err != nil {
			h.writeError(c, err)
			return
		}
		ctx, cancel := h.requestContext(c)
		defer cancel()
		out, err := h.UC.Execute(ctx, usecase.MarkReadInput{UserID: currentUser(c), ConversationID: chatID})
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"chatId": out.Conversation.RemoteID, "lastReadTime": out.LastReadTime})
	}
}
