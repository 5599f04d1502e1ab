package usecase

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"
)

// ParticipantUpdate sets the admin flag of one member.
type ParticipantUpdate struct {
	ConversationID string
	UserID         string
	IsAdmin        bool
}

type UpdateParticipantsInput struct {
	RequesterID string
	Items       []ParticipantUpdate
}

// UpdateParticipantsUseCase changes admin flags. An item matches when its participant row exists;
// it is modified only when the requester is an admin of record acting on someone else.
type UpdateParticipantsUseCase struct {
	deps Deps
}

func NewUpdateParticipantsUseCase(deps Deps) *UpdateParticipantsUseCase {
	return &UpdateParticipantsUseCase{deps: deps}
}

func (uc *UpdateParticipantsUseCase) Execute(ctx context.Context, in UpdateParticipantsInput) (BatchResult, error) {
	d := uc.deps
	var res BatchResult
	if len(in.Items) == 0 {
		return res, chat.Errorf(chat.KindInvalidInput, "no updates given")
	}

	chats := make(map[string]*chat.Chat)
	for _, item := range in.Items {
		c, ok := chats[item.ConversationID]
		if !ok {
			var err error
			c, err = d.loadChat(ctx, item.ConversationID)
			if err != nil {
				if isNotFoundKind(err) {
					continue
				}
				return res, err
			}
			chats[item.ConversationID] = c
		}
		if !c.HasParticipant(item.UserID) {
			continue
		}
		res.Matched++
		if !c.CanSetAdmin(in.RequesterID, item.UserID) {
			continue
		}

		changed, err := d.Repo.Participants().SetAdmin(ctx, item.ConversationID, item.UserID, item.IsAdmin)
		if err != nil {
			return res, persistence(err)
		}
		if !changed {
			continue
		}
		res.Modified++
		d.publish(chat.Event{
			Kind:       chat.EventConversationChanged,
			Recipients: c.ParticipantIDs(),
			Payload:    chat.EntryIDsPayload{ChatID: c.Conversation.RemoteID, IDs: []string{}},
		})
	}

	if res.Matched < len(in.Items) {
		return res, chat.PartialMatch(len(in.Items), res.Matched, res.Modified)
	}
	return res, nil
}
