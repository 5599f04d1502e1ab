package usecase

import "context"

type VisibleConversationsInput struct {
	UserID          string
	ConversationIDs []string
}

// VisibleConversationsUseCase filters conversation ids down to those the caller participates in.
// The websocket session uses it to validate subscriptions.
type VisibleConversationsUseCase struct {
	deps Deps
}

func NewVisibleConversationsUseCase(deps Deps) *VisibleConversationsUseCase {
	return &VisibleConversationsUseCase{deps: deps}
}

func (uc *VisibleConversationsUseCase) Execute(ctx context.Context, in VisibleConversationsInput) ([]string, error) {
	memberships, err := uc.deps.Repo.Participants().ListByUser(ctx, in.UserID)
	if err != nil {
		return nil, persistence(err)
	}
	mine := make([]string, len(memberships))
	for i, p := range memberships {
		mine[i] = p.ConversationID
	}
	return intersect(in.ConversationIDs, mine), nil
}
