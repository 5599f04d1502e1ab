package chat

// Group is the group space bound one-to-one to a conversation.
// Its content lives elsewhere; the row is created and deleted with the conversation.
type Group struct {
	ID                string  `db:"id"`
	RemoteID          string  `db:"remote_id"`
	ConversationID    string  `db:"conversation_id"`
	Description       *string `db:"description"`
	BackgroundPicture *string `db:"background_picture"`
	CreatedAt         int64   `db:"created_at"`
}
