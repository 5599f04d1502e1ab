package controller

import (
	"net/http"

	chat "go-convo/internal/pkg/chat/application/domain"
	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// RemoveParticipantController serves both kicking a member and leaving a conversation.
type RemoveParticipantController struct {
	Env
	UC *usecase.RemoveParticipantUseCase
}

func NewRemoveParticipantController(env Env) *RemoveParticipantController {
	return &RemoveParticipantController{Env: env, UC: usecase.NewRemoveParticipantUseCase(env.Deps)}
}

type removeParticipantRequest struct {
	ChatID string `json:"chatId" form:"chatId" binding:"required"`
	UserID string `json:"userId" form:"userId" binding:"required"`
}

// Handle reads chatId and userId from the JSON body, or from the query string when there is no body.
func (h *RemoveParticipantController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req removeParticipantRequest
		bind := c.ShouldBindJSON
		if c.Request.ContentLength == 0 {
			bind = c.ShouldBindQuery
		}
		if err := bind(&req); err != nil {
			badRequest(c, err)
			return
		}
		chatID, err := h.decodeID(req.ChatID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		targetID, err := h.decodeID(req.UserID)
		if err != nil {
			h.writeError(c, err)
			return
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()
		out, err := h.UC.Execute(ctx, usecase.RemoveParticipantInput{ConversationID: chatID, RequesterID: currentUser(c), TargetID: targetID})
		if err != nil {
			h.writeError(c, err)
			return
		}
		outcome := "left"
		if out.Kind == chat.RemovalKick {
			outcome = "removed"
		}
		p := presenter{codec: h.Deps.Codec, viewer: currentUser(c)}
		c.JSON(http.StatusOK, gin.H{"outcome": outcome, "notification": p.notification(out.Notification)})
	}
}
