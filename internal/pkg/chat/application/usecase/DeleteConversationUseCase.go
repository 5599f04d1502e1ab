package usecase

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"
)

type DeleteConversationInput struct {
	RequesterID    string
	ConversationID string
}

// DeleteConversationUseCase removes a conversation with its members, logs and group. Creator only.
type DeleteConversationUseCase struct {
	deps Deps
}

func NewDeleteConversationUseCase(deps Deps) *DeleteConversationUseCase {
	return &DeleteConversationUseCase{deps: deps}
}

func (uc *DeleteConversationUseCase) Execute(ctx context.Context, in DeleteConversationInput) error {
	d := uc.deps
	c, err := d.loadChat(ctx, in.ConversationID)
	if err != nil {
		return err
	}
	if !c.IsCreator(in.RequesterID) {
		return chat.Errorf(chat.KindNotAuthorized, "only the conversation creator can delete it")
	}

	err = d.Repo.WithinTx(ctx, func(ctx context.Context) error {
		deleted, err := d.Repo.Conversations().Delete(ctx, in.ConversationID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return chat.Errorf(chat.KindPersistenceFailure, "conversation deletion was not acknowledged")
		}
		return nil
	})
	if err != nil {
		return persistence(err)
	}

	d.publish(chat.Event{
		Kind:       chat.EventConversationDeleted,
		Recipients: c.ParticipantIDs(),
		Payload:    chat.ConversationDeletedPayload{ChatID: c.Conversation.RemoteID},
	})
	return nil
}
