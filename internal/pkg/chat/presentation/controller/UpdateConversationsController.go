package controller

import (
	"net/http"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// UpdateConversationsController applies a batch of metadata changes.
// A partially matched batch is a 409 that still reports matched and modified counts.
type UpdateConversationsController struct {
	Env
	UC *usecase.UpdateConversationsUseCase
}

func NewUpdateConversationsController(env Env) *UpdateConversationsController {
	return &UpdateConversationsController{Env: env, UC: usecase.NewUpdateConversationsUseCase(env.Deps)}
}

type conversationUpdateRequest struct {
	ChatID         string  `json:"chatId" binding:"required"`
	Name           *string `json:"name"`
	ProfilePicture *string `json:"profilePicture"`
}

type updateConversationsRequest struct {
	Chats []conversationUpdateRequest `json:"chats" binding:"required,min=1,dive"`
}

func (h *UpdateConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateConversationsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		in := usecase.UpdateConversationsInput{RequesterID: currentUser(c), Items: make([]usecase.ConversationUpdate, len(req.Chats))}
		for i, item := range req.Chats {
			id, err := h.decodeID(item.ChatID)
			if err != nil {
				h.writeError(c, err)
				return
			}
			in.Items[i] = usecase.ConversationUpdate{ConversationID: id, Name: item.Name, ProfilePicture: item.ProfilePicture}
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
