package controller

import (
	"net/http"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

type GetConversationDetailController struct {
	Env
	UC *usecase.GetConversationDetailUseCase
}

func NewGetConversationDetailController(env Env) *GetConversationDetailController {
	return &GetConversationDetailController{Env: env, UC: usecase.NewGetConversationDetailUseCase(env.Deps)}
}

func (h *GetConversationDetailController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, err := h.decodeID(c.Param("chatId"))
		if err != nil {
			h.writeError(c, err)
			return
		}
		ctx, cancel := h.requestContext(c)
		defer cancel()
		out, err := h.UC.Execute(ctx, usecase.GetConversationDetailInput{UserID: currentUser(c), ConversationID: chatID})
		if err != nil {
			h.writeError(c, err)
			return
		}
		p := presenter{codec: h.Deps.Codec, viewer: currentUser(c)}
		c.JSON(http.StatusOK, gin.H{"chat": p.detail(out)})
	}
}
