package controller

import (
	"net/http"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// ListConversationsController lists the caller's conversations. Handle serves the whole list,
// HandleFilter only the conversations named in the body.
type ListConversationsController struct {
	Env
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(env Env) *ListConversationsController {
	return &ListConversationsController{Env: env, UC: usecase.NewListConversationsUseCase(env.Deps)}
}

type chatIDsRequest struct {
	ChatIDs []string `json:"chatIds" binding:"required"`
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.list(c, usecase.ListConversationsInput{UserID: currentUser(c)})
	}
}

func (h *ListConversationsController) HandleFilter() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatIDsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		ids, err := h.decodeIDs(req.ChatIDs)
		if err != nil {
			h.writeError(c, err)
			return
		}
		h.list(c, usecase.ListConversationsInput{UserID: currentUser(c), ConversationIDs: ids})
	}
}

func (h *ListConversationsController) list(c *gin.Context, in usecase.ListConversationsInput) {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	out, err := h.UC.Execute(ctx, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	p := presenter{codec: h.Deps.Codec, viewer: in.UserID}
	c.JSON(http.StatusOK, gin.H{"chats": p.summaries(out)})
}
