package usecase

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"
)

// GetEntriesInput names the entries an event referred to. Either list may be empty.
type GetEntriesInput struct {
	UserID          string
	MessageIDs      []string
	NotificationIDs []string
}

type GetEntriesOutput struct {
	Messages      []chat.Message
	Notifications []chat.Notification
	// Conversations maps conversation id to the conversation of every returned entry.
	Conversations map[string]chat.Conversation
}

// GetEntriesUseCase fetches entries by id. Unknown ids are skipped; every found entry must
// belong to a conversation the caller is in.
type GetEntriesUseCase struct {
	deps Deps
}

func NewGetEntriesUseCase(deps Deps) *GetEntriesUseCase {
	return &GetEntriesUseCase{deps: deps}
}

func (uc *GetEntriesUseCase) Execute(ctx context.Context, in GetEntriesInput) (*GetEntriesOutput, error) {
	d := uc.deps
	out := &GetEntriesOutput{Conversations: map[string]chat.Conversation{}}

	var err error
	if ids := uniqueIDs(in.MessageIDs); len(ids) > 0 {
		if out.Messages, err = d.Repo.Stream().FindMessages(ctx, ids); err != nil {
			return nil, persistence(err)
		}
	}
	if ids := uniqueIDs(in.NotificationIDs); len(ids) > 0 {
		if out.Notifications, err = d.Repo.Stream().FindNotifications(ctx, ids); err != nil {
			return nil, persistence(err)
		}
	}

	var convIDs []string
	for _, m := range out.Messages {
		convIDs = append(convIDs, m.ConversationID)
	}
	for _, n := range out.Notifications {
		convIDs = append(convIDs, n.ConversationID)
	}
	for _, id := range uniqueIDs(convIDs) {
		c, err := d.memberChat(ctx, id, in.UserID)
		if err != nil {
			return nil, err
		}
		out.Conversations[id] = c.Conversation
	}
	return out, nil
}
