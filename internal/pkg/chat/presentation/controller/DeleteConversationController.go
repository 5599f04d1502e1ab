package controller

import (
	"net/http"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

type DeleteConversationController struct {
	Env
	UC *usecase.DeleteConversationUseCase
}

func NewDeleteConversationController(env Env) *DeleteConversationController {
	return &DeleteConversationController{Env: env, UC: usecase.NewDeleteConversationUseCase(env.Deps)}
}

func (h *DeleteConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, err := h.decodeID(c.Param("chatId"))
		if err != nil {
			h.writeError(c, err)
			return
		}
		ctx, cancel := h.requestContext(c)
		defer cancel()
		if err := h.UC.Execute(ctx, usecase.DeleteConversationInput{RequesterID: currentUser(c), ConversationID: chatID}); err != nil {
			h.writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
