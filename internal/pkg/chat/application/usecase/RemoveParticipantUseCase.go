package usecase

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"
)

type RemoveParticipantInput struct {
	ConversationID string
	RequesterID    string
	TargetID       string
}

type RemoveParticipantOutput struct {
	Kind         chat.RemovalKind
	Notification chat.Notification
}

// RemoveParticipantUseCase covers both a creator kicking a member and a member leaving.
type RemoveParticipantUseCase struct {
	deps Deps
}

func NewRemoveParticipantUseCase(deps Deps) *RemoveParticipantUseCase {
	return &RemoveParticipantUseCase{deps: deps}
}

func (uc *RemoveParticipantUseCase) Execute(ctx context.Context, in RemoveParticipantInput) (*RemoveParticipantOutput, error) {
	d := uc.deps
	c, err := d.loadChat(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}
	kind, err := c.AuthorizeRemoval(in.RequesterID, in.TargetID)
	if err != nil {
		return nil, err
	}

	names, err := d.fullNames(ctx, []string{in.TargetID})
	if err != nil {
		return nil, err
	}
	text := chat.KickedText(names[0])
	if kind == chat.RemovalLeave {
		text = chat.LeftText(names[0])
	}
	note := d.newNotification(in.ConversationID, text, d.Clock.Now())

	// the removed user is still in this set and learns about the removal
	recipients := c.ParticipantIDs()

	err = d.Repo.WithinTx(ctx, func(ctx context.Context) error {
		if err := d.Repo.Stream().AppendNotifications(ctx, []chat.Notification{note}); err != nil {
			return err
		}
		deleted, err := d.Repo.Participants().Remove(ctx, in.ConversationID, in.TargetID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return chat.Errorf(chat.KindPersistenceFailure, "participant removal was not acknowledged")
		}
		return d.rekey(ctx, c.Conversation, remaining(recipients, in.TargetID))
	})
	if err != nil {
		return nil, persistence(err)
	}

	d.publishEntries(chat.EventConversationChanged, c.Conversation, recipients, []string{note.RemoteID})
	return &RemoveParticipantOutput{Kind: kind, Notification: note}, nil
}

func remaining(ids []string, removed string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != removed {
			out = append(out, id)
		}
	}
	return out
}
