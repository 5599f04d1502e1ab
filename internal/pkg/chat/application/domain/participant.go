package chat

// Participant captures membership, admin rights and read markers.
// Primary key: (ConversationID, UserID)
type Participant struct {
	ConversationID    string `db:"conversation_id"`
	UserID            string `db:"user_id"`
	IsAdmin           bool   `db:"is_admin"`
	LastReadTime      *int64 `db:"last_read_time"`
	LastGroupReadTime *int64 `db:"last_group_read_time"`
	JoinedAt          int64  `db:"joined_at"`
}

// ParticipantIDs extracts user ids, keeping order.
func ParticipantIDs(ps []Participant) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.UserID
	}
	return ids
}
