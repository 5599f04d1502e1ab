package usecase

import (
	"errors"

	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"
)

// ErrPersistence is the kind every infrastructure failure inside a use case is reported as.
var ErrPersistence = chat.ErrPersistenceFailure

// persistence classifies a store error. Store-level not-found and duplicate errors
// should be translated by the caller before reaching this point.
func persistence(err error) error {
	return chat.Persistence(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func isNotFoundKind(err error) bool {
	return errors.Is(err, chat.ErrNotFound)
}
