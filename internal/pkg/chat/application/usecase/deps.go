package usecase

import (
	"context"
	"errors"
	"strings"

	"go-convo/internal/infrastructure/logger"
	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"
	"go-convo/internal/pkg/identity"
	users "go-convo/internal/repository/port"

	"github.com/google/uuid"
)

// Publisher hands events to realtime delivery. Implementations must not block.
type Publisher interface {
	Publish(e chat.Event)
}

// Deps are the collaborators shared by every chat use case.
type Deps struct {
	Repo      repository.ChatRepository
	Users     users.UserRepository
	Publisher Publisher
	Clock     chat.Clock
	Codec     *identity.Codec
	Settings  chat.Settings
	Log       *logger.Logger
}

// loadChat hydrates the aggregate; a missing conversation is chat.ErrNotFound.
func (d Deps) loadChat(ctx context.Context, conversationID string) (*chat.Chat, error) {
	conv, err := d.Repo.Conversations().FindByID(ctx, conversationID)
	if err != nil {
		if isNotFound(err) {
			return nil, chat.Errorf(chat.KindNotFound, "conversation not found")
		}
		return nil, persistence(err)
	}
	members, err := d.Repo.Participants().ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, persistence(err)
	}
	return chat.NewChat(conv, members), nil
}

// memberChat loads the conversation and requires userID to be part of it.
// An unknown conversation is reported as NotAParticipant so existence does not leak.
func (d Deps) memberChat(ctx context.Context, conversationID, userID string) (*chat.Chat, error) {
	c, err := d.loadChat(ctx, conversationID)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			return nil, chat.ErrNotAParticipant
		}
		return nil, err
	}
	if !c.HasParticipant(userID) {
		return nil, chat.ErrNotAParticipant
	}
	return c, nil
}

// rekey stores the fingerprint of the conversation's new member set so creation finds it by
// its current members. When the creator already owns another conversation with exactly that
// set, the older one keeps the fingerprint and this one is detached.
func (d Deps) rekey(ctx context.Context, conv chat.Conversation, memberIDs []string) error {
	hash := chat.Fingerprint(memberIDs)
	if hash == conv.ParticipantHash {
		return nil
	}
	owner, err := d.Repo.Conversations().FindByCreatorAndHash(ctx, conv.CreatorID, hash)
	switch {
	case err == nil && owner.ID != conv.ID:
		hash = chat.DetachedFingerprint(conv.ID)
		if hash == conv.ParticipantHash {
			return nil
		}
	case err != nil && !isNotFound(err):
		return err
	}
	return d.Repo.Conversations().UpdateParticipantHash(ctx, conv.ID, hash)
}

// contacts resolves contact cards with external ids. Users the directory does not know
// get a placeholder card so names can always be rendered.
func (d Deps) contacts(ctx context.Context, ids []string) (map[string]chat.Contact, error) {
	found, err := d.Users.FindContacts(ctx, ids)
	if err != nil {
		return nil, persistence(err)
	}
	out := make(map[string]chat.Contact, len(ids))
	for _, id := range ids {
		c, ok := found[id]
		if !ok {
			c = chat.NewContact(id, "", "unknown", "user", "", 0)
		}
		c.RemoteID = d.Codec.Encode(id)
		out[id] = c
	}
	return out, nil
}

func (d Deps) fullNames(ctx context.Context, ids []string) ([]string, error) {
	cards, err := d.contacts(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = cards[id].FullName
	}
	return names, nil
}

func (d Deps) newNotification(conversationID, content string, at int64) chat.Notification {
	id := uuid.NewString()
	return chat.NewNotification(chat.Notification{
		ID:             id,
		RemoteID:       d.Codec.Encode(id),
		ConversationID: conversationID,
		Content:        content,
		CreatedAt:      at,
	})
}

func (d Deps) newMessage(conversationID, authorID, content string, at int64) (chat.Message, error) {
	id := uuid.NewString()
	return chat.NewMessage(chat.Message{
		ID:             id,
		RemoteID:       d.Codec.Encode(id),
		ConversationID: conversationID,
		AuthorID:       authorID,
		Content:        content,
		CreatedAt:      at,
	})
}

// publishEntries announces new stream entries. Nothing is sent for an empty batch.
func (d Deps) publishEntries(kind chat.EventKind, conv chat.Conversation, recipients []string, remoteIDs []string) {
	if len(remoteIDs) == 0 {
		return
	}
	d.publish(chat.Event{
		Kind:       kind,
		Recipients: recipients,
		Payload:    chat.EntryIDsPayload{ChatID: conv.RemoteID, IDs: remoteIDs},
	})
}

func (d Deps) publish(e chat.Event) {
	if d.Publisher == nil || len(e.Recipients) == 0 {
		return
	}
	d.Publisher.Publish(e)
}

func notificationRemoteIDs(ns []chat.Notification) []string {
	ids := make([]string, len(ns))
	for i, n := range ns {
		ids[i] = n.RemoteID
	}
	return ids
}

func messageRemoteIDs(ms []chat.Message) []string {
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.RemoteID
	}
	return ids
}

// uniqueIDs trims, drops blanks and duplicates, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
