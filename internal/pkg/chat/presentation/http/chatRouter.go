package http

import (
	qport "go-convo/internal/infrastructure/queue/port"
	"go-convo/internal/infrastructure/realtime"
	"go-convo/internal/pkg/chat/presentation/controller"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers chat-related HTTP endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
// The group is expected to be authenticated already.
func RegisterRoutes(g *gin.RouterGroup, env controller.Env, client qport.Client, registry *realtime.Registry) {
	createCtl := controller.NewCreateConversationController(env)
	postMsgCtl := controller.NewPostMessagesController(env)
	postMsgAsyncCtl := controller.NewPostMessagesAsyncController(env, client)
	listCtl := controller.NewListConversationsController(env)
	detailCtl := controller.NewGetConversationDetailController(env)
	streamCtl := controller.NewGetStreamController(env)
	entriesCtl := controller.NewGetEntriesController(env)
	readCtl := controller.NewMarkReadController(env)
	groupReadCtl := controller.NewMarkGroupReadController(env)
	updateCtl := controller.NewUpdateConversationsController(env)
	deleteCtl := controller.NewDeleteConversationController(env)
	addCtl := controller.NewAddParticipantsController(env)
	updateParticipantsCtl := controller.NewUpdateParticipantsController(env)
	removeCtl := controller.NewRemoveParticipantController(env)
	socketCtl := controller.NewChatSocketController(env, registry)

	// GET /api/v1/chats/ws -> websocket session, registered before /chats/:chatId
	g.GET("/chats/ws", socketCtl.Handle())

	g.POST("/chats", createCtl.Handle())
	g.GET("/chats", listCtl.Handle())
	g.POST("/chats/get", listCtl.HandleFilter())
	g.PATCH("/chats", updateCtl.Handle())

	g.POST("/chats/logs", postMsgCtl.Handle())
	g.POST("/chats/logs/async", postMsgAsyncCtl.Handle())
	g.POST("/chats/logs/get", entriesCtl.HandleMessages())
	g.POST("/chats/notifications/get", entriesCtl.HandleNotifications())

	g.GET("/chats/:chatId", detailCtl.Handle())
	g.DELETE("/chats/:chatId", deleteCtl.Handle())
	g.GET("/chats/:chatId/logs", streamCtl.Handle())
	g.PATCH("/chats/:chatId/read", readCtl.Handle())

	g.PATCH("/groups/:groupId/read", groupReadCtl.Handle())

	g.POST("/chat/participants", addCtl.Handle())
	g.PATCH("/chat/participants", updateParticipantsCtl.Handle())
	g.DELETE("/chat/participant", removeCtl.Handle())
}
