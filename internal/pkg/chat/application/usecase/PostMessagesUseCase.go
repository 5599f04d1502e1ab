package usecase

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"
)

// MessageEntry is one message to post.
type MessageEntry struct {
	ConversationID string
	Content        string
}

type PostMessagesInput struct {
	AuthorID string
	Entries  []MessageEntry
}

// PostMessagesUseCase appends messages, possibly to several conversations at once.
// Membership is checked for every entry before anything is written.
type PostMessagesUseCase struct {
	deps Deps
}

func NewPostMessagesUseCase(deps Deps) *PostMessagesUseCase {
	return &PostMessagesUseCase{deps: deps}
}

// Execute returns the stored messages in input order.
func (uc *PostMessagesUseCase) Execute(ctx context.Context, in PostMessagesInput) ([]chat.Message, error) {
	d := uc.deps
	if len(in.Entries) == 0 {
		return nil, chat.Errorf(chat.KindInvalidInput, "no messages to post")
	}

	chats := make(map[string]*chat.Chat)
	var order []string
	for _, e := range in.Entries {
		if _, ok := chats[e.ConversationID]; ok {
			continue
		}
		c, err := d.memberChat(ctx, e.ConversationID, in.AuthorID)
		if err != nil {
			return nil, err
		}
		chats[e.ConversationID] = c
		order = append(order, e.ConversationID)
	}

	msgs := make([]chat.Message, len(in.Entries))
	for i, e := range in.Entries {
		m, err := d.newMessage(e.ConversationID, in.AuthorID, e.Content, d.Clock.Now())
		if err != nil {
			return nil, err
		}
		msgs[i] = m
	}

	if err := d.Repo.Stream().AppendMessages(ctx, msgs); err != nil {
		return nil, persistence(err)
	}

	byConversation := make(map[string][]chat.Message, len(order))
	for _, m := range msgs {
		byConversation[m.ConversationID] = append(byConversation[m.ConversationID], m)
	}
	for _, id := range order {
		c := chats[id]
		d.publishEntries(chat.EventNewMessage, c.Conversation, c.ParticipantIDs(), messageRemoteIDs(byConversation[id]))
	}
	return msgs, nil
}
