package controller

import (
	"net/http"

	queueport "go-convo/internal/infrastructure/queue/port"
	"go-convo/internal/pkg/chat/application/task"

	"github.com/gin-gonic/gin"
)

// PostMessagesAsyncController enqueues a background task that posts the messages.
// The request is only validated for shape and identifiers; membership is checked by the worker.
type PostMessagesAsyncController struct {
	Env
	Q queueport.Client
}

func NewPostMessagesAsyncController(env Env, client queueport.Client) *PostMessagesAsyncController {
	return &PostMessagesAsyncController{Env: env, Q: client}
}

func (h *PostMessagesAsyncController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req postMessagesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		in, err := h.postMessagesInput(c, req)
		if err != nil {
			h.writeError(c, err)
			return
		}
		t, err := task.NewPostMessagesTask(in)
		if err != nil {
			h.writeError(c, err)
			return
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()
		id, err := h.Q.Enqueue(ctx, t, queueport.EnqueueOption{Queue: "chat", MaxRetry: 20})
		if err != nil {
			h.Deps.Log.Warn("enqueue post messages failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"code": "unavailable", "error": "failed to enqueue messages"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "queued", "taskId": id})
	}
}
