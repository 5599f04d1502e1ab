package task

import (
	"context"
	"errors"
	"time"

	qport "go-convo/internal/infrastructure/queue/port"
	chat "go-convo/internal/pkg/chat/application/domain"
	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/hibiken/asynq"
)

// PostMessagesTaskType is the queue task name for posting messages in the background.
const PostMessagesTaskType = "chat:post_messages"

// PostMessagesTaskPayload is the JSON payload transported via the queue.
// Identifiers are internal; the controller decodes external ids before enqueueing.
type PostMessagesTaskPayload struct {
	AuthorID string                 `json:"authorId"`
	Entries  []PostMessagesTaskItem `json:"entries"`
}

type PostMessagesTaskItem struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
}

const postMessagesTimeout = 10 * time.Second

// NewPostMessagesTask builds the queue task for in.
func NewPostMessagesTask(in usecase.PostMessagesInput) (qport.Task, error) {
	p := PostMessagesTaskPayload{AuthorID: in.AuthorID, Entries: make([]PostMessagesTaskItem, len(in.Entries))}
	for i, e := range in.Entries {
		p.Entries[i] = PostMessagesTaskItem{ConversationID: e.ConversationID, Content: e.Content}
	}
	return qport.NewJSONTask(PostMessagesTaskType, p)
}

// RegisterPostMessagesTask binds the task handler to the provided server.
func RegisterPostMessagesTask(srv qport.Server, uc *usecase.PostMessagesUseCase) {
	srv.Register(PostMessagesTaskType, func(ctx context.Context, t qport.Task) error {
		var p PostMessagesTaskPayload
		if err := t.Decode(&p); err != nil {
			// malformed payload: do not retry
			return errors.Join(err, asynq.SkipRetry)
		}

		in := usecase.PostMessagesInput{AuthorID: p.AuthorID, Entries: make([]usecase.MessageEntry, len(p.Entries))}
		for i, e := range p.Entries {
			in.Entries[i] = usecase.MessageEntry{ConversationID: e.ConversationID, Content: e.Content}
		}

		ctx, cancel := context.WithTimeout(ctx, postMessagesTimeout)
		defer cancel()

		if _, err := uc.Execute(ctx, in); err != nil {
			// only storage failures are worth another attempt
			if errors.Is(err, chat.ErrPersistenceFailure) {
				return err
			}
			return errors.Join(err, asynq.SkipRetry)
		}
		return nil
	})
}
