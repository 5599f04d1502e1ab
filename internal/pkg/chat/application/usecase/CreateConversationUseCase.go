package usecase

import (
	"context"
	"strings"

	chat "go-convo/internal/pkg/chat/application/domain"

	"github.com/google/uuid"
)

// CreateConversationInput carries the creator, the requested members and optional metadata.
// ParticipantIDs may or may not contain the creator.
type CreateConversationInput struct {
	CreatorID      string
	ParticipantIDs []string
	Metadata       chat.Metadata
}

type CreateConversationOutput struct {
	Conversation chat.Conversation
	// Created is false when an identical conversation (same creator, same member set) already existed.
	Created       bool
	Notifications []chat.Notification
	Messages      []chat.Message
}

// CreateConversationUseCase opens a conversation, or returns the one the creator already has
// with exactly the same members.
type CreateConversationUseCase struct {
	deps Deps
}

func NewCreateConversationUseCase(deps Deps) *CreateConversationUseCase {
	return &CreateConversationUseCase{deps: deps}
}

func (uc *CreateConversationUseCase) Execute(ctx context.Context, in CreateConversationInput) (*CreateConversationOutput, error) {
	d := uc.deps
	if strings.TrimSpace(in.CreatorID) == "" {
		return nil, chat.Errorf(chat.KindInvalidInput, "creator is required")
	}
	members := chat.NormalizeParticipants(in.CreatorID, in.ParticipantIDs)
	if len(members) < 2 {
		return nil, chat.Errorf(chat.KindInvalidMembership, "a conversation needs at least one participant besides the creator")
	}
	hash := chat.Fingerprint(members)

	existing, err := d.Repo.Conversations().FindByCreatorAndHash(ctx, in.CreatorID, hash)
	switch {
	case err == nil:
		return &CreateConversationOutput{Conversation: existing}, nil
	case !isNotFound(err):
		return nil, persistence(err)
	}

	// the batch counts the creator; the notice names everyone else
	others := members[1:]
	var joinText string
	if len(members) > d.Settings.JoinNotificationThreshold {
		names, err := d.fullNames(ctx, others)
		if err != nil {
			return nil, err
		}
		joinText = chat.JoinedText(names)
	}

	// t0 stamps the creation notice, t1 the join notice and first message, t2 the creator's read marker.
	t0, t1, t2 := d.Clock.Now(), d.Clock.Now(), d.Clock.Now()

	var firstMessage *chat.Message
	if strings.TrimSpace(in.Metadata.FirstMessage) != "" {
		m, err := d.newMessage("pending", in.CreatorID, in.Metadata.FirstMessage, t1)
		if err != nil {
			return nil, err
		}
		firstMessage = &m
	}

	convID := uuid.NewString()
	conv := chat.Conversation{
		ID:              convID,
		RemoteID:        d.Codec.Encode(convID),
		Name:            trimmed(in.Metadata.Name),
		ProfilePicture:  trimmed(in.Metadata.ProfilePicture),
		CreatorID:       in.CreatorID,
		ParticipantHash: hash,
		CreatedAt:       t0,
		UpdatedAt:       t0,
	}

	out := &CreateConversationOutput{}
	err = d.Repo.WithinTx(ctx, func(ctx context.Context) error {
		stored, created, err := d.Repo.Conversations().Insert(ctx, conv)
		if err != nil {
			return err
		}
		out.Conversation = stored
		if !created {
			// lost the race against an identical request
			return nil
		}
		out.Created = true

		groupID := uuid.NewString()
		if err := d.Repo.Groups().Insert(ctx, chat.Group{
			ID:             groupID,
			RemoteID:       d.Codec.Encode(groupID),
			ConversationID: convID,
			CreatedAt:      t0,
		}); err != nil {
			return err
		}

		rows := make([]chat.Participant, len(members))
		for i, id := range members {
			rows[i] = chat.Participant{ConversationID: convID, UserID: id, JoinedAt: t0}
		}
		rows[0].IsAdmin = true
		rows[0].LastReadTime = &t2
		if err := d.Repo.Participants().Add(ctx, rows); err != nil {
			return err
		}

		notes := []chat.Notification{d.newNotification(convID, chat.ConversationCreatedText, t0)}
		if joinText != "" {
			notes = append(notes, d.newNotification(convID, joinText, t1))
		}
		if err := d.Repo.Stream().AppendNotifications(ctx, notes); err != nil {
			return err
		}
		out.Notifications = notes

		if firstMessage != nil {
			firstMessage.ConversationID = convID
			if err := d.Repo.Stream().AppendMessages(ctx, []chat.Message{*firstMessage}); err != nil {
				return err
			}
			out.Messages = []chat.Message{*firstMessage}
		}
		return nil
	})
	if err != nil {
		return nil, persistence(err)
	}
	if !out.Created {
		return &CreateConversationOutput{Conversation: out.Conversation}, nil
	}

	d.publishEntries(chat.EventConversationChanged, out.Conversation, members, notificationRemoteIDs(out.Notifications))
	d.publishEntries(chat.EventNewMessage, out.Conversation, members, messageRemoteIDs(out.Messages))
	d.Log.Debug("conversation created", "conversationId", convID, "participants", len(members))
	return out, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
