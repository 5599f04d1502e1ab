package usecase

import (
	"context"
	"errors"

	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"
)

type AddParticipantsInput struct {
	ConversationID string
	RequesterID    string
	UserIDs        []string
}

type AddParticipantsOutput struct {
	Conversation chat.Conversation
	Participants []chat.Participant
	Contacts     []chat.Contact
}

// AddParticipantsUseCase lets the creator bring new members into a conversation.
type AddParticipantsUseCase struct {
	deps Deps
}

func NewAddParticipantsUseCase(deps Deps) *AddParticipantsUseCase {
	return &AddParticipantsUseCase{deps: deps}
}

func (uc *AddParticipantsUseCase) Execute(ctx context.Context, in AddParticipantsInput) (*AddParticipantsOutput, error) {
	d := uc.deps
	c, err := d.loadChat(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}
	ids := uniqueIDs(in.UserIDs)
	if err := c.AuthorizeAddParticipants(in.RequesterID, ids); err != nil {
		return nil, err
	}

	cards, err := d.contacts(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := d.Clock.Now()
	rows := make([]chat.Participant, len(ids))
	contacts := make([]chat.Contact, len(ids))
	names := make([]string, len(ids))
	for i, id := range ids {
		rows[i] = chat.Participant{ConversationID: in.ConversationID, UserID: id, JoinedAt: now}
		contacts[i] = cards[id]
		names[i] = cards[id].FullName
	}

	var notes []chat.Notification
	if len(ids) > d.Settings.JoinNotificationThreshold {
		notes = append(notes, d.newNotification(in.ConversationID, chat.JoinedText(names), now))
	}

	err = d.Repo.WithinTx(ctx, func(ctx context.Context) error {
		if err := d.Repo.Participants().Add(ctx, rows); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return chat.ErrDuplicateParticipant
			}
			return err
		}
		if err := d.rekey(ctx, c.Conversation, append(c.ParticipantIDs(), ids...)); err != nil {
			return err
		}
		return d.Repo.Stream().AppendNotifications(ctx, notes)
	})
	if err != nil {
		return nil, persistence(err)
	}

	recipients := append(c.ParticipantIDs(), ids...)
	d.publish(chat.Event{
		Kind:       chat.EventConversationChanged,
		Recipients: recipients,
		Payload:    chat.EntryIDsPayload{ChatID: c.Conversation.RemoteID, IDs: notificationRemoteIDs(notes)},
	})
	return &AddParticipantsOutput{Conversation: c.Conversation, Participants: rows, Contacts: contacts}, nil
}
