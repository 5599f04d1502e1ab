package repository

import (
	"context"
	"errors"

	chat "go-convo/internal/pkg/chat/application/domain"
)

// Store-level errors. Adapters translate backend-specific failures into these.
var (
	ErrNotFound  = errors.New("repository: not found")
	ErrDuplicate = errors.New("repository: duplicate key")
)

// UnitOfWork runs fn atomically. Repositories called with the ctx handed to fn
// take part in the same transaction; a returned error rolls everything back.
// Nested calls join the outer transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ConversationRepository persists conversation metadata.
type ConversationRepository interface {
	// Insert stores c unless a conversation with the same creator and participant hash exists,
	// in which case that one is returned with created=false.
	Insert(ctx context.Context, c chat.Conversation) (stored chat.Conversation, created bool, err error)
	FindByID(ctx context.Context, id string) (chat.Conversation, error)
	FindByIDs(ctx context.Context, ids []string) ([]chat.Conversation, error)
	FindByCreatorAndHash(ctx context.Context, creatorID, participantHash string) (chat.Conversation, error)
	// UpdateParticipantHash re-keys the conversation after its member set changed.
	// It fails with ErrDuplicate when the creator already owns another conversation with that hash.
	UpdateParticipantHash(ctx context.Context, id, participantHash string) error
	// UpdateMetadata sets the non-nil fields and reports whether any value changed.
	UpdateMetadata(ctx context.Context, id string, name, picture *string, updatedAt int64) (changed bool, err error)
	// Delete removes the conversation and everything that depends on it.
	Delete(ctx context.Context, id string) (int64, error)
}

// GroupRepository persists the group row linked to each conversation.
type GroupRepository interface {
	Insert(ctx context.Context, g chat.Group) error
	FindByID(ctx context.Context, id string) (chat.Group, error)
	FindByConversation(ctx context.Context, conversationID string) (chat.Group, error)
}

// ParticipantRepository persists membership rows; (conversation, user) is unique.
type ParticipantRepository interface {
	// Add inserts all rows or none; an existing pair fails with ErrDuplicate.
	Add(ctx context.Context, ps []chat.Participant) error
	// Remove returns the number of rows deleted.
	Remove(ctx context.Context, conversationID, userID string) (int64, error)
	Find(ctx context.Context, conversationID, userID string) (chat.Participant, error)
	ListByConversation(ctx context.Context, conversationID string) ([]chat.Participant, error)
	ListByUser(ctx context.Context, userID string) ([]chat.Participant, error)
	CountByConversation(ctx context.Context, conversationID string) (int, error)
	SetAdmin(ctx context.Context, conversationID, userID string, isAdmin bool) (changed bool, err error)
	UpdateReadTime(ctx context.Context, conversationID, userID string, at int64) error
	UpdateGroupReadTime(ctx context.Context, conversationID, userID string, at int64) error
}

// StreamRepository persists the two append-only logs of a conversation.
type StreamRepository interface {
	AppendMessages(ctx context.Context, ms []chat.Message) error
	AppendNotifications(ctx context.Context, ns []chat.Notification) error
	ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error)
	ListNotifications(ctx context.Context, conversationID string) ([]chat.Notification, error)
	// LatestMessage returns ErrNotFound for a conversation without messages.
	LatestMessage(ctx context.Context, conversationID string) (chat.Message, error)
	FindMessages(ctx context.Context, ids []string) ([]chat.Message, error)
	FindNotifications(ctx context.Context, ids []string) ([]chat.Notification, error)
}

// ChatRepository bundles every chat store plus the unit of work they share.
type ChatRepository interface {
	UnitOfWork
	Conversations() ConversationRepository
	Groups() GroupRepository
	Participants() ParticipantRepository
	Stream() StreamRepository
}
