package controller

import (
	"net/http"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

type MarkGroupReadController struct {
	Env
	UC *usecase.MarkGroupReadUseCase
}

func NewMarkGroupReadController(env Env) *MarkGroupReadController {
	return &MarkGroupReadController{Env: env, UC: usecase.NewMarkGroupReadUseCase(env.Deps)}
}

func (h *MarkGroupReadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID, err := h.decodeID(c.Param("groupId"))
		if err != nil {
			h.writeError(c, err)
			return
		}
		ctx, cancel := h.requestContext(c)
		defer cancel()
		out, err := h.UC.Execute(ctx, usecase.MarkGroupReadInput{UserID: currentUser(c), GroupID: groupID})
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"groupId": out.Group.RemoteID, "lastGroupReadTime": out.LastGroupReadTime})
	}
}
