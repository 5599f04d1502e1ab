package chat

import (
	"fmt"
	"strings"
)

// Texts of system notifications.
const (
	ConversationCreatedText = "Conversation created."
	joinedSuffix            = "joined the conversation."
	leftSuffix              = "left the conversation."
	kickedSuffix            = "was removed from the conversation."
)

// JoinedText enumerates joiners: "Ann joined…", "Ann and Bob joined…", "Ann, Bob and Cid joined…".
func JoinedText(names []string) string {
	return fmt.Sprintf("%s %s", enumerate(names), joinedSuffix)
}

func LeftText(name string) string { return fmt.Sprintf("%s %s", name, leftSuffix) }

func KickedText(name string) string { return fmt.Sprintf("%s %s", name, kickedSuffix) }

func RenamedText(name string) string { return fmt.Sprintf("Conversation renamed to %s.", name) }

func enumerate(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
