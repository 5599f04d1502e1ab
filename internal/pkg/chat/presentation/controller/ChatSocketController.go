package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-convo/internal/infrastructure/realtime"
	chat "go-convo/internal/pkg/chat/application/domain"
	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ChatSocketController upgrades an authenticated request into a realtime session. Events for
// the user reach the session through the registry; the client may ask which of a set of
// conversations it is allowed to follow.
type ChatSocketController struct {
	Env
	registry  *realtime.Registry
	visibleUC *usecase.VisibleConversationsUseCase
}

func NewChatSocketController(env Env, registry *realtime.Registry) *ChatSocketController {
	return &ChatSocketController{
		Env:       env,
		registry:  registry,
		visibleUC: usecase.NewVisibleConversationsUseCase(env.Deps),
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// tokens travel in the query string, so any origin holding one may connect
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	readTimeout  = 60 * time.Second
	maxFrameSize = 64 << 10
)

// Client frame types.
const (
	frameConnected = "connected"
	frameVisible   = "visible"
	framePing      = "ping"
	framePong      = "pong"
	frameError     = "error"
)

type inboundFrame struct {
	Type    string   `json:"type"`
	ChatIDs []string `json:"chatIds,omitempty"`
}

type errorData struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Handle upgrades HTTP connections to websocket and processes frames until the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUser(c)
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			ctl.Deps.Log.Debug("websocket upgrade failed", "error", err)
			return
		}

		conn := realtime.NewConnection(userID, ws)
		conn.Start()
		ctl.registry.Register(userID, conn)
		defer func() {
			ctl.registry.Deregister(conn)
			conn.Close()
		}()

		ws.SetReadLimit(maxFrameSize)
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(readTimeout))
		})

		ctl.reply(conn, frameConnected, gin.H{"userId": ctl.Deps.Codec.Encode(userID)})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) &&
					!errors.Is(err, websocket.ErrCloseSent) {
					ctl.Deps.Log.Debug("websocket read ended", "userId", userID, "error", err)
				}
				return
			}
			_ = ws.SetReadDeadline(time.Now().Add(readTimeout))

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, chat.Errorf(chat.KindInvalidInput, "invalid frame"))
				continue
			}
			switch frame.Type {
			case framePing:
				ctl.reply(conn, framePong, nil)
			case frameVisible:
				ctl.handleVisible(c.Request.Context(), conn, userID, frame)
			default:
				ctl.replyError(conn, chat.Errorf(chat.KindInvalidInput, "unknown frame type %q", frame.Type))
			}
		}
	}
}

func (ctl *ChatSocketController) handleVisible(ctx context.Context, conn *realtime.Connection, userID string, frame inboundFrame) {
	ids, err := ctl.decodeIDs(frame.ChatIDs)
	if err != nil {
		ctl.replyError(conn, err)
		return
	}
	ctx, cancel := ctl.withTimeout(ctx)
	defer cancel()
	visible, err := ctl.visibleUC.Execute(ctx, usecase.VisibleConversationsInput{UserID: userID, ConversationIDs: ids})
	if err != nil {
		ctl.replyError(conn, err)
		return
	}
	ctl.reply(conn, frameVisible, gin.H{"chatIds": ctl.Deps.Codec.EncodeAll(visible)})
}

func (ctl *ChatSocketController) reply(conn *realtime.Connection, frameType string, data any) {
	payload, err := realtime.EncodeFrame(chat.EventKind(frameType), data)
	if err != nil {
		return
	}
	_ = conn.Send(payload)
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, err error) {
	var ce *chat.Error
	if !errors.As(err, &ce) {
		ctl.Deps.Log.Warn("websocket request failed", "error", err)
		ce = &chat.Error{Kind: chat.KindPersistenceFailure, Message: "internal error"}
	}
	ctl.reply(conn, frameError, errorData{Code: ce.Code(), Error: ce.Message})
}
