package controller

import (
	"net/http"

	chat "go-convo/internal/pkg/chat/application/domain"
	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// CreateConversationController handles conversation creation (one controller per endpoint).
type CreateConversationController struct {
	Env
	UC *usecase.CreateConversationUseCase
}

func NewCreateConversationController(env Env) *CreateConversationController {
	return &CreateConversationController{Env: env, UC: usecase.NewCreateConversationUseCase(env.Deps)}
}

type createConversationRequest struct {
	ParticipantIDs []string `json:"participantIds" binding:"required"`
	Name           *string  `json:"name"`
	ProfilePicture *string  `json:"profilePicture"`
	Message        string   `json:"message"`
}

// Handle answers 201 for a new conversation and 200 when an identical one already existed.
func (h *CreateConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		participants, err := h.decodeIDs(req.ParticipantIDs)
		if err != nil {
			h.writeError(c, err)
			return
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()
		out, err := h.UC.Execute(ctx, usecase.CreateConversationInput{
			CreatorID:      currentUser(c),
			ParticipantIDs: participants,
			Metadata:       chat.Metadata{Name: req.Name, ProfilePicture: req.ProfilePicture, FirstMessage: req.Message},
		})
		if err != nil {
			h.writeError(c, err)
			return
		}

		status := http.StatusOK
		if out.Created {
			status = http.StatusCreated
		}
		p := presenter{codec: h.Deps.Codec, viewer: currentUser(c)}
		c.JSON(status, gin.H{
			"chat":          p.conversation(out.Conversation),
			"created":       out.Created,
			"notifications": p.notifications(out.Notifications),
			"messages":      p.messages(out.Messages),
		})
	}
}
