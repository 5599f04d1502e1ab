package controller

import (
	"net/http"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

type AddParticipantsController struct {
	Env
	UC *usecase.AddParticipantsUseCase
}

func NewAddParticipantsController(env Env) *AddParticipantsController {
	return &AddParticipantsController{Env: env, UC: usecase.NewAddParticipantsUseCase(env.Deps)}
}

type addParticipantsRequest struct {
	ChatID  string   `json:"chatId" binding:"required"`
	UserIDs []string `json:"userIds" binding:"required"`
}

func (h *AddParticipantsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addParticipantsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		chatID, err := h.decodeID(req.ChatID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		userIDs, err := h.decodeIDs(req.UserIDs)
		if err != nil {
			h.writeError(c, err)
			return
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()
		out, err := h.UC.Execute(ctx, usecase.AddParticipantsInput{ConversationID: chatID, RequesterID: currentUser(c), UserIDs: userIDs})
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"chatId": out.Conversation.RemoteID, "participants": contacts(out.Contacts)})
	}
}
