package usecase

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"
)

type MarkReadInput struct {
	UserID         string
	ConversationID string
}

type MarkReadOutput struct {
	Conversation chat.Conversation
	LastReadTime int64
}

// MarkReadUseCase moves the caller's message read marker to now and tells the other members.
type MarkReadUseCase struct {
	deps Deps
}

func NewMarkReadUseCase(deps Deps) *MarkReadUseCase {
	return &MarkReadUseCase{deps: deps}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) (*MarkReadOutput, error) {
	d := uc.deps
	c, err := d.memberChat(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return nil, err
	}

	now := d.Clock.Now()
	if err := d.Repo.Participants().UpdateReadTime(ctx, in.ConversationID, in.UserID, now); err != nil {
		if isNotFound(err) {
			return nil, chat.ErrNotAParticipant
		}
		return nil, persistence(err)
	}

	d.publish(chat.Event{
		Kind:       chat.EventReadReceipt,
		Recipients: chat.Without(c.ParticipantIDs(), in.UserID),
		Payload: chat.ReadReceiptPayload{
			ChatID:        c.Conversation.RemoteID,
			ParticipantID: d.Codec.Encode(in.UserID),
			ReadTime:      now,
		},
	})
	return &MarkReadOutput{Conversation: c.Conversation, LastReadTime: now}, nil
}
