package usecase

import (
	"context"
	"strings"

	chat "go-convo/internal/pkg/chat/application/domain"
)

type PostNotificationsInput struct {
	ConversationID string
	Contents       []string
}

// PostNotificationsUseCase appends system notices to a conversation. It is not exposed over HTTP;
// other services and background tasks call it.
type PostNotificationsUseCase struct {
	deps Deps
}

func NewPostNotificationsUseCase(deps Deps) *PostNotificationsUseCase {
	return &PostNotificationsUseCase{deps: deps}
}

func (uc *PostNotificationsUseCase) Execute(ctx context.Context, in PostNotificationsInput) ([]chat.Notification, error) {
	d := uc.deps
	if len(in.Contents) == 0 {
		return nil, chat.Errorf(chat.KindInvalidInput, "no notifications to post")
	}
	c, err := d.loadChat(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}

	notes := make([]chat.Notification, 0, len(in.Contents))
	for _, content := range in.Contents {
		if strings.TrimSpace(content) == "" {
			return nil, chat.Errorf(chat.KindInvalidInput, "notification content is empty")
		}
		notes = append(notes, d.newNotification(in.ConversationID, content, d.Clock.Now()))
	}
	if err := d.Repo.Stream().AppendNotifications(ctx, notes); err != nil {
		return nil, persistence(err)
	}

	d.publishEntries(chat.EventConversationChanged, c.Conversation, c.ParticipantIDs(), notificationRemoteIDs(notes))
	return notes, nil
}
