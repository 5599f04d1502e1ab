package chat

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Contact is the public card of a user as supplied by the user directory.
type Contact struct {
	UserID         string `json:"userId"`
	RemoteID       string `json:"remoteId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	FullName       string `json:"fullName"`
	ProfilePicture string `json:"profilePicture"`
	LastActive     int64  `json:"lastActive"`
}

// NewContact capitalises names and fills FullName.
func NewContact(userID, remoteID, firstName, lastName, picture string, lastActive int64) Contact {
	first := Capitalize(firstName)
	last := Capitalize(lastName)
	return Contact{
		UserID:         userID,
		RemoteID:       remoteID,
		FirstName:      first,
		LastName:       last,
		FullName:       strings.TrimSpace(first + " " + last),
		ProfilePicture: picture,
		LastActive:     lastActive,
	}
}

// Capitalize upper-cases the first rune.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
