package controller

import (
	"net/http"

	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

// PostMessagesController appends messages synchronously.
type PostMessagesController struct {
	Env
	UC *usecase.PostMessagesUseCase
}

func NewPostMessagesController(env Env) *PostMessagesController {
	return &PostMessagesController{Env: env, UC: usecase.NewPostMessagesUseCase(env.Deps)}
}

type messageEntryRequest struct {
	ChatID  string `json:"chatId" binding:"required"`
	Content string `json:"content"`
}

type postMessagesRequest struct {
	Messages []messageEntryRequest `json:"messages" binding:"required,min=1,dive"`
}

// postMessagesInput decodes a posted batch; shared with the async variant.
func (e Env) postMessagesInput(c *gin.Context, req postMessagesRequest) (usecase.PostMessagesInput, error) {
	in := usecase.PostMessagesInput{AuthorID: currentUser(c), Entries: make([]usecase.MessageEntry, len(req.Messages))}
	for i, m := range req.Messages {
		id, err := e.decodeID(m.ChatID)
		if err != nil {
			return in, err
		}
		in.Entries[i] = usecase.MessageEntry{ConversationID: id, Content: m.Content}
	}
	return in, nil
}

func (h *PostMessagesController) Handle() gin.HandlerFunc {
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

		ctx, cancel := h.requestContext(c)
		defer cancel()
		msgs, err := h.UC.Execute(ctx, in)
		if err != nil {
			h.writeError(c, err)
			return
		}
		p := presenter{codec: h.Deps.Codec, viewer: in.AuthorID}
		c.JSON(http.StatusCreated, gin.H{"messages": p.messages(msgs)})
	}
}
