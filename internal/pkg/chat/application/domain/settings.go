package chat

// Settings tunes the orchestration rules.
type Settings struct {
	// JoinNotificationThreshold: a join notification is emitted when a participant batch holds more
	// members than this. At creation the batch includes the creator.
	JoinNotificationThreshold int
	// DisplayNameParticipants caps how many names a derived conversation name enumerates.
	DisplayNameParticipants int
	// ParticipantPageSize caps the participant summaries returned with a conversation detail.
	ParticipantPageSize int
}

func DefaultSettings() Settings {
	return Settings{JoinNotificationThreshold: 2, DisplayNameParticipants: 3, ParticipantPageSize: 10}
}
