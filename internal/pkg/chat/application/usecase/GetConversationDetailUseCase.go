package usecase

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"

	"golang.org/x/sync/errgroup"
)

type GetConversationDetailInput struct {
	UserID         string
	ConversationID string
}

// ConversationDetail extends the list view with admin state, a first page of the other
// members and the linked group.
type ConversationDetail struct {
	ConversationSummary
	IsAdmin           bool
	LastGroupReadTime *int64
	Participants      []chat.Contact
	RemainingCount    int
	Group             *chat.Group
}

type GetConversationDetailUseCase struct {
	deps Deps
}

func NewGetConversationDetailUseCase(deps Deps) *GetConversationDetailUseCase {
	return &GetConversationDetailUseCase{deps: deps}
}

func (uc *GetConversationDetailUseCase) Execute(ctx context.Context, in GetConversationDetailInput) (*ConversationDetail, error) {
	d := uc.deps
	c, err := d.memberChat(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return nil, err
	}

	var (
		summaries []ConversationSummary
		group     *chat.Group
		total     int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summaries, err = d.summarize(gctx, in.UserID, []chat.Conversation{c.Conversation})
		return err
	})
	g.Go(func() error {
		found, err := d.Repo.Groups().FindByConversation(gctx, in.ConversationID)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return persistence(err)
		}
		group = &found
		return nil
	})
	g.Go(func() error {
		n, err := d.Repo.Participants().CountByConversation(gctx, in.ConversationID)
		if err != nil {
			return persistence(err)
		}
		total = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := summaries[0]
	page := s.Others
	if size := d.Settings.ParticipantPageSize; len(page) > size {
		page = page[:size]
	}
	return &ConversationDetail{
		ConversationSummary: s,
		IsAdmin:             s.Self.IsAdmin,
		LastGroupReadTime:   s.Self.LastGroupReadTime,
		Participants:        page,
		RemainingCount:      max(total-1-len(page), 0),
		Group:               group,
	}, nil
}
