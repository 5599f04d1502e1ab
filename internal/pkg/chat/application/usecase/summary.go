package usecase

import (
	"context"
	"sort"

	chat "go-convo/internal/pkg/chat/application/domain"

	"golang.org/x/sync/errgroup"
)

const readPathConcurrency = 8

// ConversationSummary is a conversation as one of its members sees it in a list.
type ConversationSummary struct {
	Conversation chat.Conversation
	// Display holds the explicit name and picture when set, the derived ones otherwise.
	Display       chat.Display
	IsGroup       bool
	Self          chat.Participant
	Members       []chat.Participant
	Others        []chat.Contact // other members in join order
	LatestMessage *chat.Message
}

// LastActivity is the time of the latest message, or of the last metadata change.
func (s ConversationSummary) LastActivity() int64 {
	if s.LatestMessage != nil && s.LatestMessage.CreatedAt > s.Conversation.UpdatedAt {
		return s.LatestMessage.CreatedAt
	}
	return s.Conversation.UpdatedAt
}

// summarize loads members and latest message of every conversation concurrently, then
// resolves all other members' contacts in a single directory call.
func (d Deps) summarize(ctx context.Context, userID string, convs []chat.Conversation) ([]ConversationSummary, error) {
	out := make([]ConversationSummary, len(convs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readPathConcurrency)
	for i := range convs {
		i := i
		g.Go(func() error {
			conv := convs[i]
			members, err := d.Repo.Participants().ListByConversation(gctx, conv.ID)
			if err != nil {
				return err
			}
			s := ConversationSummary{Conversation: conv, Members: members}
			latest, err := d.Repo.Stream().LatestMessage(gctx, conv.ID)
			switch {
			case err == nil:
				s.LatestMessage = &latest
			case !isNotFound(err):
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, persistence(err)
	}

	var otherIDs []string
	for _, s := range out {
		for _, p := range s.Members {
			if p.UserID != userID {
				otherIDs = append(otherIDs, p.UserID)
			}
		}
	}
	cards, err := d.contacts(ctx, uniqueIDs(otherIDs))
	if err != nil {
		return nil, err
	}

	for i := range out {
		s := &out[i]
		for _, p := range s.Members {
			if p.UserID == userID {
				s.Self = p
				continue
			}
			s.Others = append(s.Others, cards[p.UserID])
		}
		s.IsGroup = len(s.Others) > 1
		s.Display = chat.DeriveDisplay(s.Others, d.Settings.DisplayNameParticipants)
		if s.Conversation.Name != nil {
			s.Display.Name = *s.Conversation.Name
		}
		if s.Conversation.ProfilePicture != nil {
			s.Display.ProfilePicture = *s.Conversation.ProfilePicture
		}
	}
	return out, nil
}

func sortByActivity(ss []ConversationSummary) {
	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].LastActivity() > ss[j].LastActivity()
	})
}
