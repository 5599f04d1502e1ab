package usecase

import "context"

// ListConversationsInput optionally narrows the listing to ConversationIDs.
type ListConversationsInput struct {
	UserID          string
	ConversationIDs []string
}

// ListConversationsUseCase lists the caller's conversations, most recently active first.
type ListConversationsUseCase struct {
	deps Deps
}

func NewListConversationsUseCase(deps Deps) *ListConversationsUseCase {
	return &ListConversationsUseCase{deps: deps}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]ConversationSummary, error) {
	d := uc.deps
	memberships, err := d.Repo.Participants().ListByUser(ctx, in.UserID)
	if err != nil {
		return nil, persistence(err)
	}
	ids := make([]string, 0, len(memberships))
	for _, p := range memberships {
		ids = append(ids, p.ConversationID)
	}
	if in.ConversationIDs != nil {
		ids = intersect(in.ConversationIDs, ids)
	}
	if len(ids) == 0 {
		return []ConversationSummary{}, nil
	}

	convs, err := d.Repo.Conversations().FindByIDs(ctx, ids)
	if err != nil {
		return nil, persistence(err)
	}
	out, err := d.summarize(ctx, in.UserID, convs)
	if err != nil {
		return nil, err
	}
	sortByActivity(out)
	return out, nil
}

// intersect keeps the members of want that are in have, in want's order, without duplicates.
func intersect(want, have []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, id := range have {
		set[id] = struct{}{}
	}
	out := make([]string, 0, len(want))
	for _, id := range uniqueIDs(want) {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
