package usecase

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"
)

type MarkGroupReadInput struct {
	UserID  string
	GroupID string
}

type MarkGroupReadOutput struct {
	Group             chat.Group
	LastGroupReadTime int64
}

// MarkGroupReadUseCase moves the caller's group read marker. No event is emitted.
type MarkGroupReadUseCase struct {
	deps Deps
}

func NewMarkGroupReadUseCase(deps Deps) *MarkGroupReadUseCase {
	return &MarkGroupReadUseCase{deps: deps}
}

func (uc *MarkGroupReadUseCase) Execute(ctx context.Context, in MarkGroupReadInput) (*MarkGroupReadOutput, error) {
	d := uc.deps
	g, err := d.Repo.Groups().FindByID(ctx, in.GroupID)
	if err != nil {
		if isNotFound(err) {
			return nil, chat.ErrNotAParticipant
		}
		return nil, persistence(err)
	}

	now := d.Clock.Now()
	if err := d.Repo.Participants().UpdateGroupReadTime(ctx, g.ConversationID, in.UserID, now); err != nil {
		if isNotFound(err) {
			return nil, chat.ErrNotAParticipant
		}
		return nil, persistence(err)
	}
	return &MarkGroupReadOutput{Group: g, LastGroupReadTime: now}, nil
}
