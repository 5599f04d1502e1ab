package chat

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	MaxMessageLength      = 3000
	MaxNotificationLength = 200
)

// Message is an immutable, user-authored log entry in a conversation.
type Message struct {
	ID             string `db:"id"`
	RemoteID       string `db:"remote_id"`
	ConversationID string `db:"conversation_id"`
	AuthorID       string `db:"author_id"`
	Content        string `db:"content"`
	CreatedAt      int64  `db:"created_at"`
	UpdatedAt      int64  `db:"updated_at"`
}

// Notification is a system-authored log entry in a conversation. It has no author.
type Notification struct {
	ID             string `db:"id"`
	RemoteID       string `db:"remote_id"`
	ConversationID string `db:"conversation_id"`
	Content        string `db:"content"`
	CreatedAt      int64  `db:"created_at"`
}

// NewMessage validates and normalises a message before it is persisted.
func NewMessage(m Message) (Message, error) {
	if m.ConversationID == "" || m.AuthorID == "" {
		return Message{}, Errorf(KindInvalidInput, "conversation and author are required")
	}
	m.Content = strings.TrimSpace(m.Content)
	if m.Content == "" {
		return Message{}, Errorf(KindInvalidInput, "message content is empty")
	}
	if utf8.RuneCountInString(m.Content) > MaxMessageLength {
		return Message{}, Errorf(KindInvalidInput, "message content exceeds %d characters", MaxMessageLength)
	}
	if m.UpdatedAt == 0 {
		m.UpdatedAt = m.CreatedAt
	}
	return m, nil
}

// NewNotification trims content and cuts it to MaxNotificationLength runes.
func NewNotification(n Notification) Notification {
	n.Content = strings.TrimSpace(n.Content)
	if utf8.RuneCountInString(n.Content) > MaxNotificationLength {
		runes := []rune(n.Content)
		n.Content = string(runes[:MaxNotificationLength-1]) + "…"
	}
	return n
}

// EntryKind tells the two streams apart in a merged view.
type EntryKind string

const (
	EntryNotification EntryKind = "notification"
	EntryMessage      EntryKind = "message"
)

// StreamEntry is one element of the merged message/notification view.
// Exactly one of Message and Notification is set.
type StreamEntry struct {
	Kind         EntryKind
	Message      *Message
	Notification *Notification
}

func (e StreamEntry) CreatedAt() int64 {
	if e.Message != nil {
		return e.Message.CreatedAt
	}
	return e.Notification.CreatedAt
}

func (e StreamEntry) ID() string {
	if e.Message != nil {
		return e.Message.ID
	}
	return e.Notification.ID
}

// MergeStream orders both streams by creation time. On equal timestamps a notification
// comes before a message; remaining ties break on id.
func MergeStream(messages []Message, notifications []Notification) []StreamEntry {
	out := make([]StreamEntry, 0, len(messages)+len(notifications))
	for i := range notifications {
		out = append(out, StreamEntry{Kind: EntryNotification, Notification: &notifications[i]})
	}
	for i := range messages {
		out = append(out, StreamEntry{Kind: EntryMessage, Message: &messages[i]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CreatedAt() != b.CreatedAt() {
			return a.CreatedAt() < b.CreatedAt()
		}
		if a.Kind != b.Kind {
			return a.Kind == EntryNotification
		}
		return a.ID() < b.ID()
	})
	return out
}
