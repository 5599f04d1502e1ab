package repository

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"
)

// UserRepository is the read side of the user directory.
type UserRepository interface {
	// FindContacts returns the contact cards of the known ids, keyed by internal user id.
	// Unknown ids are absent from the map rather than an error.
	FindContacts(ctx context.Context, ids []string) (map[string]chat.Contact, error)
}
