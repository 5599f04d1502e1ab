package chat

// Chat is the aggregate of a conversation and its current participants.
//
// The application layer hydrates it from the stores before asking it to decide;
// it enforces membership and authorization rules and never touches persistence.
type Chat struct {
	Conversation Conversation
	Members      []Participant // ordered by join time
	byUser       map[string]int
}

// NewChat builds the aggregate from a conversation and its participant rows.
func NewChat(c Conversation, members []Participant) *Chat {
	idx := make(map[string]int, len(members))
	for i, p := range members {
		idx[p.UserID] = i
	}
	return &Chat{Conversation: c, Members: members, byUser: idx}
}

// HasParticipant tells whether userID is part of this chat.
func (c *Chat) HasParticipant(userID string) bool {
	if c == nil {
		return false
	}
	_, ok := c.byUser[userID]
	return ok
}

// Participant returns the membership row of userID.
func (c *Chat) Participant(userID string) (Participant, bool) {
	i, ok := c.byUser[userID]
	if !ok {
		return Participant{}, false
	}
	return c.Members[i], true
}

func (c *Chat) IsCreator(userID string) bool {
	return c.Conversation.CreatorID == userID
}

// IsAdmin reports whether userID is an admin of record.
func (c *Chat) IsAdmin(userID string) bool {
	p, ok := c.Participant(userID)
	return ok && p.IsAdmin
}

// ParticipantIDs lists every member, in join order.
func (c *Chat) ParticipantIDs() []string {
	return ParticipantIDs(c.Members)
}

// AuthorizeAddParticipants: only the creator may add members, and none of them may already belong.
func (c *Chat) AuthorizeAddParticipants(requesterID string, userIDs []string) error {
	if !c.IsCreator(requesterID) {
		return Errorf(KindNotAuthorized, "only the conversation creator can add participants")
	}
	if len(userIDs) == 0 {
		return Errorf(KindInvalidMembership, "no participants to add")
	}
	for _, id := range userIDs {
		if c.HasParticipant(id) {
			return ErrDuplicateParticipant
		}
	}
	return nil
}

// RemovalKind distinguishes a kick from a voluntary leave.
type RemovalKind int

const (
	RemovalKick RemovalKind = iota + 1
	RemovalLeave
)

// AuthorizeRemoval decides whether requesterID may remove targetID.
// The creator may remove anyone but themselves; anyone may remove themselves.
func (c *Chat) AuthorizeRemoval(requesterID, targetID string) (RemovalKind, error) {
	creator := c.IsCreator(requesterID)
	switch {
	case creator && requesterID == targetID:
		return 0, ErrSelfRemovalByCreatorForbidden
	case creator:
		if !c.HasParticipant(targetID) {
			return 0, ErrNotAParticipant
		}
		return RemovalKick, nil
	case requesterID == targetID:
		if !c.HasParticipant(targetID) {
			return 0, ErrNotAParticipant
		}
		return RemovalLeave, nil
	}
	return 0, Errorf(KindNotAuthorized, "only the creator can remove other participants")
}

// CanSetAdmin: an admin of record may change another member's admin flag.
// Nobody changes their own flag and the creator always stays admin.
func (c *Chat) CanSetAdmin(requesterID, targetID string) bool {
	if requesterID == targetID || c.IsCreator(targetID) {
		return false
	}
	return c.IsAdmin(requesterID) && c.HasParticipant(targetID)
}
