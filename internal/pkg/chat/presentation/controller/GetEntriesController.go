package controller

import (
	"net/http"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// GetEntriesController fetches the entries an event referred to. HandleMessages and
// HandleNotifications serve the two kinds of entry.
type GetEntriesController struct {
	Env
	UC *usecase.GetEntriesUseCase
}

func NewGetEntriesController(env Env) *GetEntriesController {
	return &GetEntriesController{Env: env, UC: usecase.NewGetEntriesUseCase(env.Deps)}
}

type entryIDsRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func (h *GetEntriesController) HandleMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, ok := h.bind(c)
		if !ok {
			return
		}
		out, ok := h.fetch(c, usecase.GetEntriesInput{UserID: currentUser(c), MessageIDs: ids})
		if !ok {
			return
		}
		p := presenter{codec: h.Deps.Codec, viewer: currentUser(c)}
		c.JSON(http.StatusOK, gin.H{"messages": p.messages(out.Messages)})
	}
}

func (h *GetEntriesController) HandleNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, ok := h.bind(c)
		if !ok {
			return
		}
		out, ok := h.fetch(c, usecase.GetEntriesInput{UserID: currentUser(c), NotificationIDs: ids})
		if !ok {
			return
		}
		p := presenter{codec: h.Deps.Codec, viewer: currentUser(c)}
		c.JSON(http.StatusOK, gin.H{"notifications": p.notifications(out.Notifications)})
	}
}

func (h *GetEntriesController) bind(c *gin.Context) ([]string, bool) {
	var req entryIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return nil, false
	}
	ids, err := h.decodeIDs(req.IDs)
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return ids, true
}

func (h *GetEntriesController) fetch(c *gin.Context, in usecase.GetEntriesInput) (*usecase.GetEntriesOutput, bool) {
	ctx, cancel := h.requestContext(c)
	defer cancel()
	out, err := h.UC.Execute(ctx, in)
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return out, true
}
