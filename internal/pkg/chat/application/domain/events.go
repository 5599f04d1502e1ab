package chat

// EventVersion is bumped whenever an event kind or payload shape changes.
const EventVersion = 1

// EventKind names an outbound realtime event.
type EventKind string

const (
	EventNewMessage          EventKind = "new_message"
	EventConversationChanged EventKind = "conversation_changed"
	EventReadReceipt         EventKind = "read_receipt"
	EventConversationDeleted EventKind = "conversation_deleted"
)

// Event is handed to the publisher after the triggering writes are committed.
// Recipients are internal user ids; the payload only carries external ids.
type Event struct {
	Kind       EventKind
	Recipients []string
	Payload    any
}

// EntryIDsPayload lists new stream entries of one conversation.
type EntryIDsPayload struct {
	ChatID string   `json:"chatId"`
	IDs    []string `json:"ids"`
}

type ReadReceiptPayload struct {
	ChatID        string `json:"chatId"`
	ParticipantID string `json:"participantId"`
	ReadTime      int64  `json:"readTime"`
}

type ConversationDeletedPayload struct {
	ChatID string `json:"chatId"`
}

// Without returns ids minus exclude, keeping order.
func Without(ids []string, exclude string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}
