package controller

import (
	chat "go-convo/internal/pkg/chat/application/domain"
	"go-convo/internal/pkg/chat/application/usecase"
	"go-convo/internal/pkg/identity"
)

// Response bodies. Every identifier leaving the service is external.

type conversationResponse struct {
	ID             string  `json:"id"`
	Name           *string `json:"name"`
	ProfilePicture *string `json:"profilePicture"`
	CreatorID      string  `json:"creatorId"`
	CreatedAt      int64   `json:"createdAt"`
	UpdatedAt      int64   `json:"updatedAt"`
}

type messageResponse struct {
	ID        string `json:"id"`
	ChatID    string `json:"chatId"`
	AuthorID  string `json:"authorId"`
	Content   string `json:"content"`
	IsMe      bool   `json:"isMe"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

type notificationResponse struct {
	ID        string `json:"id"`
	ChatID    string `json:"chatId"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
}

type entryResponse struct {
	Kind         chat.EntryKind        `json:"kind"`
	Message      *messageResponse      `json:"message,omitempty"`
	Notification *notificationResponse `json:"notification,omitempty"`
}

type contactResponse struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	FullName       string `json:"fullName"`
	ProfilePicture string `json:"profilePicture"`
	LastActive     int64  `json:"lastActive"`
}

type groupResponse struct {
	ID                string  `json:"id"`
	Description       *string `json:"description"`
	BackgroundPicture *string `json:"backgroundPicture"`
	CreatedAt         int64   `json:"createdAt"`
}

type summaryResponse struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	ProfilePicture string           `json:"profilePicture"`
	LastActive     int64            `json:"lastActive"`
	IsGroup        bool             `json:"isGroup"`
	CreatorID      string           `json:"creatorId"`
	LastReadTime   *int64           `json:"lastReadTime"`
	LatestMessage  *messageResponse `json:"latestMessage"`
	UpdatedAt      int64            `json:"updatedAt"`
}

type detailResponse struct {
	summaryResponse
	IsAdmin           bool              `json:"isAdmin"`
	LastGroupReadTime *int64            `json:"lastGroupReadTime"`
	Participants      []contactResponse `json:"participants"`
	RemainingCount    int               `json:"remainingCount"`
	Group             *groupResponse    `json:"group"`
}

type presenter struct {
	codec  *identity.Codec
	viewer string
}

func (p presenter) conversation(c chat.Conversation) conversationResponse {
	return conversationResponse{
		ID:             c.RemoteID,
		Name:           c.Name,
		ProfilePicture: c.ProfilePicture,
		CreatorID:      p.codec.Encode(c.CreatorID),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// message needs the conversation's external id; messages only carry the internal one.
func (p presenter) message(m chat.Message) messageResponse {
	return messageResponse{
		ID:        m.RemoteID,
		ChatID:    p.codec.Encode(m.ConversationID),
		AuthorID:  p.codec.Encode(m.AuthorID),
		Content:   m.Content,
		IsMe:      m.AuthorID == p.viewer,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (p presenter) messages(ms []chat.Message) []messageResponse {
	out := make([]messageResponse, len(ms))
	for i, m := range ms {
		out[i] = p.message(m)
	}
	return out
}

func (p presenter) notification(n chat.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.RemoteID,
		ChatID:    p.codec.Encode(n.ConversationID),
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
}

func (p presenter) notifications(ns []chat.Notification) []notificationResponse {
	out := make([]notificationResponse, len(ns))
	for i, n := range ns {
		out[i] = p.notification(n)
	}
	return out
}

func (p presenter) entries(es []chat.StreamEntry) []entryResponse {
	out := make([]entryResponse, len(es))
	for i, e := range es {
		out[i] = entryResponse{Kind: e.Kind}
		if e.Message != nil {
			m := p.message(*e.Message)
			out[i].Message = &m
		}
		if e.Notification != nil {
			n := p.notification(*e.Notification)
			out[i].Notification = &n
		}
	}
	return out
}

func contact(c chat.Contact) contactResponse {
	return contactResponse{
		ID:             c.RemoteID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		FullName:       c.FullName,
		ProfilePicture: c.ProfilePicture,
		LastActive:     c.LastActive,
	}
}

func contacts(cs []chat.Contact) []contactResponse {
	out := make([]contactResponse, len(cs))
	for i, c := range cs {
		out[i] = contact(c)
	}
	return out
}

func (p presenter) summary(s usecase.ConversationSummary) summaryResponse {
	out := summaryResponse{
		ID:             s.Conversation.RemoteID,
		Name:           s.Display.Name,
		ProfilePicture: s.Display.ProfilePicture,
		LastActive:     s.Display.LastActive,
		IsGroup:        s.IsGroup,
		CreatorID:      p.codec.Encode(s.Conversation.CreatorID),
		LastReadTime:   s.Self.LastReadTime,
		UpdatedAt:      s.LastActivity(),
	}
	if s.LatestMessage != nil {
		m := p.message(*s.LatestMessage)
		out.LatestMessage = &m
	}
	return out
}

func (p presenter) summaries(ss []usecase.ConversationSummary) []summaryResponse {
	out := make([]summaryResponse, len(ss))
	for i, s := range ss {
		out[i] = p.summary(s)
	}
	return out
}

func (p presenter) detail(d *usecase.ConversationDetail) detailResponse {
	out := detailResponse{
		summaryResponse:   p.summary(d.ConversationSummary),
		IsAdmin:           d.IsAdmin,
		LastGroupReadTime: d.LastGroupReadTime,
		Participants:      contacts(d.Participants),
		RemainingCount:    d.RemainingCount,
	}
	if d.Group != nil {
		out.Group = &groupResponse{
			ID:                d.Group.RemoteID,
			Description:       d.Group.Description,
			BackgroundPicture: d.Group.BackgroundPicture,
			CreatedAt:         d.Group.CreatedAt,
		}
	}
	return out
}
