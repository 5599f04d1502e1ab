package usecase

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"
)

// ConversationUpdate changes the non-nil fields of one conversation.
type ConversationUpdate struct {
	ConversationID string
	Name           *string
	ProfilePicture *string
}

type UpdateConversationsInput struct {
	RequesterID string
	Items       []ConversationUpdate
}

// BatchResult reports how many items resolved and how many actually changed something.
type BatchResult struct {
	Matched  int
	Modified int
}

// UpdateConversationsUseCase applies metadata changes item by item. Only the creator of a
// conversation matches; items applied before a failure stay applied.
type UpdateConversationsUseCase struct {
	deps Deps
}

func NewUpdateConversationsUseCase(deps Deps) *UpdateConversationsUseCase {
	return &UpdateConversationsUseCase{deps: deps}
}

// Execute returns a PartialMatchFailure, along with the result, when not every item matched.
func (uc *UpdateConversationsUseCase) Execute(ctx context.Context, in UpdateConversationsInput) (BatchResult, error) {
	d := uc.deps
	var res BatchResult
	if len(in.Items) == 0 {
		return res, chat.Errorf(chat.KindInvalidInput, "no updates given")
	}

	for _, item := range in.Items {
		conv, err := d.Repo.Conversations().FindByID(ctx, item.ConversationID)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return res, persistence(err)
		}
		if conv.CreatorID != in.RequesterID {
			continue
		}
		res.Matched++

		name, picture := trimmed(item.Name), trimmed(item.ProfilePicture)
		renamed := name != nil && (conv.Name == nil || *conv.Name != *name)

		var notes []chat.Notification
		var changed bool
		err = d.Repo.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			changed, err = d.Repo.Conversations().UpdateMetadata(ctx, conv.ID, name, picture, d.Clock.Now())
			if err != nil || !changed || !renamed {
				return err
			}
			notes = []chat.Notification{d.newNotification(conv.ID, chat.RenamedText(*name), d.Clock.Now())}
			return d.Repo.Stream().AppendNotifications(ctx, notes)
		})
		if err != nil {
			return res, persistence(err)
		}
		if !changed {
			continue
		}
		res.Modified++

		members, err := d.Repo.Participants().ListByConversation(ctx, conv.ID)
		if err != nil {
			d.Log.Warn("conversation updated but members could not be listed", "conversationId", conv.ID, "error", err)
			continue
		}
		d.publish(chat.Event{
			Kind:       chat.EventConversationChanged,
			Recipients: chat.ParticipantIDs(members),
			Payload:    chat.EntryIDsPayload{ChatID: conv.RemoteID, IDs: notificationRemoteIDs(notes)},
		})
	}

	if res.Matched < len(in.Items) {
		return res, chat.PartialMatch(len(in.Items), res.Matched, res.Modified)
	}
	return res, nil
}
