package v1

import (
	qport "go-convo/internal/infrastructure/queue/port"
	"go-convo/internal/infrastructure/realtime"
	"go-convo/internal/pkg/auth"
	"go-convo/internal/pkg/chat/presentation/controller"
	httpHandler "go-convo/internal/pkg/chat/presentation/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1. Every route requires a bearer token.
func RegisterRoutes(r *gin.Engine, env controller.Env, authn *auth.Authenticator, client qport.Client, registry *realtime.Registry) {
	v1 := r.Group("/api/v1", auth.RequireAuth(authn, env.Deps.Log))
	httpHandler.RegisterRoutes(v1, env, client, registry)
}
