package controller

import (
	"net/http"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// UpdateParticipantsController changes admin flags in batch.
type UpdateParticipantsController struct {
	Env
	UC *usecase.UpdateParticipantsUseCase
}

func NewUpdateParticipantsController(env Env) *UpdateParticipantsController {
	return &UpdateParticipantsController{Env: env, UC: usecase.NewUpdateParticipantsUseCase(env.Deps)}
}

type participantUpdateRequest struct {
	ChatID  string `json:"chatId" binding:"required"`
	UserID  string `json:"userId" binding:"required"`
	IsAdmin bool   `json:"isAdmin"`
}

type updateParticipantsRequest struct {
	Participants []participantUpdateRequest `json:"participants" binding:"required,min=1,dive"`
}

func (h *UpdateParticipantsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateParticipantsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		in := usecase.UpdateParticipantsInput{RequesterID: currentUser(c), Items: make([]usecase.ParticipantUpdate, len(req.Participants))}
		for i, item := range req.Participants {
			chatID, err := h.decodeID(item.ChatID)
			if err != nil {
				h.writeError(c, err)
				return
			}
			userID, err := h.decodeID(item.UserID)
			if err != nil {
				h.writeError(c, err)
				return
			}
			in.Items[i] = usecase.ParticipantUpdate{ConversationID: chatID, UserID: userID, IsAdmin: item.IsAdmin}
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()
		res, err := h.UC.Execute(ctx, in)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"matched": res.Matched, "modified": res.Modified})
	}
}
