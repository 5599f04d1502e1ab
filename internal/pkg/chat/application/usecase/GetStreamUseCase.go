package usecase

import (
	"context"

	chat "go-convo/internal/pkg/chat/application/domain"

	"golang.org/x/sync/errgroup"
)

type GetStreamInput struct {
	UserID         string
	ConversationID string
}

type GetStreamOutput struct {
	Conversation chat.Conversation
	Entries      []chat.StreamEntry
}

// GetStreamUseCase returns the merged message and notification log of a conversation.
type GetStreamUseCase struct {
	deps Deps
}

func NewGetStreamUseCase(deps Deps) *GetStreamUseCase {
	return &GetStreamUseCase{deps: deps}
}

func (uc *GetStreamUseCase) Execute(ctx context.Context, in GetStreamInput) (*GetStreamOutput, error) {
	d := uc.deps
	c, err := d.memberChat(ctx, in.ConversationID, in.UserID)
	if err != nil {
		return nil, err
	}

	var (
		msgs  []chat.Message
		notes []chat.Notification
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		msgs, err = d.Repo.Stream().ListMessages(gctx, in.ConversationID)
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = d.Repo.Stream().ListNotifications(gctx, in.ConversationID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, persistence(err)
	}
	return &GetStreamOutput{Conversation: c.Conversation, Entries: chat.MergeStream(msgs, notes)}, nil
}
