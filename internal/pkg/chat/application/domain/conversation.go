package chat

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Conversation is a multi-party messaging context.
// (CreatorID, ParticipantHash) is unique: one conversation per creator and exact participant set.
type Conversation struct {
	ID              string  `db:"id"`
	RemoteID        string  `db:"remote_id"`
	Name            *string `db:"name"`
	ProfilePicture  *string `db:"profile_picture"`
	CreatorID       string  `db:"creator_id"`
	ParticipantHash string  `db:"participant_hash"`
	CreatedAt       int64   `db:"created_at"`
	UpdatedAt       int64   `db:"updated_at"`
}

// Metadata is the creator-supplied part of a new conversation.
type Metadata struct {
	Name           *string
	ProfilePicture *string
	FirstMessage   string
}

// NormalizeParticipants returns the participant set with the creator included exactly once,
// blanks and duplicates dropped, creator first and the rest in request order.
func NormalizeParticipants(creatorID string, participantIDs []string) []string {
	out := []string{creatorID}
	seen := map[string]struct{}{creatorID: {}}
	for _, id := range participantIDs {
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

// Fingerprint hashes a participant set independently of order and duplicates.
func Fingerprint(participantIDs []string) string {
	set := make(map[string]struct{}, len(participantIDs))
	ids := make([]string, 0, len(participantIDs))
	for _, id := range participantIDs {
		if _, ok := set[id]; ok {
			continue
		}
		set[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	sum := sha256.Sum256([]byte(strings.Join(ids, "\x00")))
	return hex.EncodeToString(sum[:])
}

// DetachedFingerprint is stored instead of a member-set fingerprint when another conversation
// of the same creator already owns that set. It never equals a Fingerprint result.
func DetachedFingerprint(conversationID string) string {
	return "detached:" + conversationID
}
