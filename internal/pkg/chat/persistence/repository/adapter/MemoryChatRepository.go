package adapter

import (
	"context"
	"sort"
	"sync"

	chat "go-convo/internal/pkg/chat/application/domain"
	repository "go-convo/internal/pkg/chat/persistence/repository/port"
)

// MemoryChatRepository keeps every chat store in process memory.
// It honours the same constraints as the Postgres schema: the (creator, participant hash)
// uniqueness, the (conversation, user) participant key and cascading conversation deletes.
// WithinTx serialises transactions and restores a snapshot when fn fails.
type MemoryChatRepository struct {
	mu    sync.Mutex
	data  *memoryData
	fails map[string]error
}

type memoryData struct {
	conversations map[string]chat.Conversation
	byFingerprint map[string]string
	groups        map[string]chat.Group
	participants  map[string]map[string]chat.Participant // conversation -> user -> row
	messages      map[string]chat.Message
	notifications map[string]chat.Notification
}

type memTxKey struct{}

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{
		data: &memoryData{
			conversations: map[string]chat.Conversation{},
			byFingerprint: map[string]string{},
			groups:        map[string]chat.Group{},
			participants:  map[string]map[string]chat.Participant{},
			messages:      map[string]chat.Message{},
			notifications: map[string]chat.Notification{},
		},
		fails: map[string]error{},
	}
}

var _ repository.ChatRepository = (*MemoryChatRepository)(nil)

// FailOn makes the named operation (e.g. "AppendMessages") return err until cleared with a nil err.
func (r *MemoryChatRepository) FailOn(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fails, op)
		return
	}
	r.fails[op] = err
}

func (r *MemoryChatRepository) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) == r {
		return fn(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.data.clone()
	if err := fn(context.WithValue(ctx, memTxKey{}, r)); err != nil {
		r.data = snapshot
		return err
	}
	return nil
}

func (r *MemoryChatRepository) Conversations() repository.ConversationRepository {
	return memConversations{r}
}
func (r *MemoryChatRepository) Groups() repository.GroupRepository { return memGroups{r} }
func (r *MemoryChatRepository) Participants() repository.ParticipantRepository {
	return memParticipants{r}
}
func (r *MemoryChatRepository) Stream() repository.StreamRepository { return memStream{r} }

// lock acquires the store unless ctx already runs inside one of its transactions,
// then checks for an injected failure.
func (r *MemoryChatRepository) lock(ctx context.Context, op string) (func(), error) {
	unlock := func() {}
	if ctx.Value(memTxKey{}) != r {
		r.mu.Lock()
		unlock = r.mu.Unlock
	}
	if err := r.fails[op]; err != nil {
		unlock()
		return nil, err
	}
	return unlock, nil
}

func (d *memoryData) clone() *memoryData {
	c := &memoryData{
		conversations: make(map[string]chat.Conversation, len(d.conversations)),
		byFingerprint: make(map[string]string, len(d.byFingerprint)),
		groups:        make(map[string]chat.Group, len(d.groups)),
		participants:  make(map[string]map[string]chat.Participant, len(d.participants)),
		messages:      make(map[string]chat.Message, len(d.messages)),
		notifications: make(map[string]chat.Notification, len(d.notifications)),
	}
	for k, v := range d.conversations {
		c.conversations[k] = v
	}
	for k, v := range d.byFingerprint {
		c.byFingerprint[k] = v
	}
	for k, v := range d.groups {
		c.groups[k] = v
	}
	for k, rows := range d.participants {
		m := make(map[string]chat.Participant, len(rows))
		for u, p := range rows {
			m[u] = p
		}
		c.participants[k] = m
	}
	for k, v := range d.messages {
		c.messages[k] = v
	}
	for k, v := range d.notifications {
		c.notifications[k] = v
	}
	return c
}

func fingerprintKey(creatorID, hash string) string { return creatorID + "|" + hash }

// --- conversations ---

type memConversations struct{ r *MemoryChatRepository }

func (m memConversations) Insert(ctx context.Context, c chat.Conversation) (chat.Conversation, bool, error) {
	unlock, err := m.r.lock(ctx, "InsertConversation")
	if err != nil {
		return chat.Conversation{}, false, err
	}
	defer unlock()
	d := m.r.data
	key := fingerprintKey(c.CreatorID, c.ParticipantHash)
	if id, ok := d.byFingerprint[key]; ok {
		return d.conversations[id], false, nil
	}
	if _, ok := d.conversations[c.ID]; ok {
		return chat.Conversation{}, false, repository.ErrDuplicate
	}
	d.conversations[c.ID] = c
	d.byFingerprint[key] = c.ID
	return c, true, nil
}

func (m memConversations) FindByID(ctx context.Context, id string) (chat.Conversation, error) {
	unlock, err := m.r.lock(ctx, "FindConversation")
	if err != nil {
		return chat.Conversation{}, err
	}
	defer unlock()
	c, ok := m.r.data.conversations[id]
	if !ok {
		return chat.Conversation{}, repository.ErrNotFound
	}
	return c, nil
}

func (m memConversations) FindByIDs(ctx context.Context, ids []string) ([]chat.Conversation, error) {
	unlock, err := m.r.lock(ctx, "FindConversations")
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []chat.Conversation
	for _, id := range ids {
		if c, ok := m.r.data.conversations[id]; ok {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (m memConversations) FindByCreatorAndHash(ctx context.Context, creatorID, participantHash string) (chat.Conversation, error) {
	unlock, err := m.r.lock(ctx, "FindConversation")
	if err != nil {
		return chat.Conversation{}, err
	}
	defer unlock()
	id, ok := m.r.data.byFingerprint[fingerprintKey(creatorID, participantHash)]
	if !ok {
		return chat.Conversation{}, repository.ErrNotFound
	}
	return m.r.data.conversations[id], nil
}

func (m memConversations) UpdateParticipantHash(ctx context.Context, id, participantHash string) error {
	unlock, err := m.r.lock(ctx, "UpdateParticipantHash")
	if err != nil {
		return err
	}
	defer unlock()
	d := m.r.data
	c, ok := d.conversations[id]
	if !ok {
		return repository.ErrNotFound
	}
	key := fingerprintKey(c.CreatorID, participantHash)
	if owner, ok := d.byFingerprint[key]; ok {
		if owner == id {
			return nil
		}
		return repository.ErrDuplicate
	}
	delete(d.byFingerprint, fingerprintKey(c.CreatorID, c.ParticipantHash))
	c.ParticipantHash = participantHash
	d.conversations[id] = c
	d.byFingerprint[key] = id
	return nil
}

func (m memConversations) UpdateMetadata(ctx context.Context, id string, name, picture *string, updatedAt int64) (bool, error) {
	unlock, err := m.r.lock(ctx, "UpdateConversation")
	if err != nil {
		return false, err
	}
	defer unlock()
	c, ok := m.r.data.conversations[id]
	if !ok {
		return false, nil
	}
	changed := false
	if name != nil && (c.Name == nil || *c.Name != *name) {
		v := *name
		c.Name = &v
		changed = true
	}
	if picture != nil && (c.ProfilePicture == nil || *c.ProfilePicture != *picture) {
		v := *picture
		c.ProfilePicture = &v
		changed = true
	}
	if changed {
		c.UpdatedAt = updatedAt
		m.r.data.conversations[id] = c
	}
	return changed, nil
}

func (m memConversations) Delete(ctx context.Context, id string) (int64, error) {
	unlock, err := m.r.lock(ctx, "DeleteConversation")
	if err != nil {
		return 0, err
	}
	defer unlock()
	d := m.r.data
	c, ok := d.conversations[id]
	if !ok {
		return 0, nil
	}
	delete(d.conversations, id)
	delete(d.byFingerprint, fingerprintKey(c.CreatorID, c.ParticipantHash))
	delete(d.participants, id)
	for gid, g := range d.groups {
		if g.ConversationID == id {
			delete(d.groups, gid)
		}
	}
	for mid, msg := range d.messages {
		if msg.ConversationID == id {
			delete(d.messages, mid)
		}
	}
	for nid, n := range d.notifications {
		if n.ConversationID == id {
			delete(d.notifications, nid)
		}
	}
	return 1, nil
}

// --- groups ---

type memGroups struct{ r *MemoryChatRepository }

func (m memGroups) Insert(ctx context.Context, g chat.Group) error {
	unlock, err := m.r.lock(ctx, "InsertGroup")
	if err != nil {
		return err
	}
	defer unlock()
	for _, existing := range m.r.data.groups {
		if existing.ConversationID == g.ConversationID {
			return repository.ErrDuplicate
		}
	}
	m.r.data.groups[g.ID] = g
	return nil
}

func (m memGroups) FindByID(ctx context.Context, id string) (chat.Group, error) {
	unlock, err := m.r.lock(ctx, "FindGroup")
	if err != nil {
		return chat.Group{}, err
	}
	defer unlock()
	g, ok := m.r.data.groups[id]
	if !ok {
		return chat.Group{}, repository.ErrNotFound
	}
	return g, nil
}

func (m memGroups) FindByConversation(ctx context.Context, conversationID string) (chat.Group, error) {
	unlock, err := m.r.lock(ctx, "FindGroup")
	if err != nil {
		return chat.Group{}, err
	}
	defer unlock()
	for _, g := range m.r.data.groups {
		if g.ConversationID == conversationID {
			return g, nil
		}
	}
	return chat.Group{}, repository.ErrNotFound
}

// --- participants ---

type memParticipants struct{ r *MemoryChatRepository }

func (m memParticipants) Add(ctx context.Context, ps []chat.Participant) error {
	unlock, err := m.r.lock(ctx, "AddParticipants")
	if err != nil {
		return err
	}
	defer unlock()
	d := m.r.data
	seen := map[string]struct{}{}
	for _, p := range ps {
		key := p.ConversationID + "|" + p.UserID
		if _, ok := seen[key]; ok {
			return repository.ErrDuplicate
		}
		seen[key] = struct{}{}
		if _, ok := d.participants[p.ConversationID][p.UserID]; ok {
			return repository.ErrDuplicate
		}
	}
	for _, p := range ps {
		rows := d.participants[p.ConversationID]
		if rows == nil {
			rows = map[string]chat.Participant{}
			d.participants[p.ConversationID] = rows
		}
		rows[p.UserID] = p
	}
	return nil
}

func (m memParticipants) Remove(ctx context.Context, conversationID, userID string) (int64, error) {
	unlock, err := m.r.lock(ctx, "RemoveParticipant")
	if err != nil {
		return 0, err
	}
	defer unlock()
	rows := m.r.data.participants[conversationID]
	if _, ok := rows[userID]; !ok {
		return 0, nil
	}
	delete(rows, userID)
	return 1, nil
}

func (m memParticipants) Find(ctx context.Context, conversationID, userID string) (chat.Participant, error) {
	unlock, err := m.r.lock(ctx, "FindParticipant")
	if err != nil {
		return chat.Participant{}, err
	}
	defer unlock()
	p, ok := m.r.data.participants[conversationID][userID]
	if !ok {
		return chat.Participant{}, repository.ErrNotFound
	}
	return p, nil
}

func (m memParticipants) ListByConversation(ctx context.Context, conversationID string) ([]chat.Participant, error) {
	unlock, err := m.r.lock(ctx, "ListParticipants")
	if err != nil {
		return nil, err
	}
	defer unlock()
	out := make([]chat.Participant, 0, len(m.r.data.participants[conversationID]))
	for _, p := range m.r.data.participants[conversationID] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt != out[j].JoinedAt {
			return out[i].JoinedAt < out[j].JoinedAt
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (m memParticipants) ListByUser(ctx context.Context, userID string) ([]chat.Participant, error) {
	unlock, err := m.r.lock(ctx, "ListParticipants")
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []chat.Participant
	for _, rows := range m.r.data.participants {
		if p, ok := rows[userID]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt != out[j].JoinedAt {
			return out[i].JoinedAt > out[j].JoinedAt
		}
		return out[i].ConversationID < out[j].ConversationID
	})
	return out, nil
}

func (m memParticipants) CountByConversation(ctx context.Context, conversationID string) (int, error) {
	unlock, err := m.r.lock(ctx, "CountParticipants")
	if err != nil {
		return 0, err
	}
	defer unlock()
	return len(m.r.data.participants[conversationID]), nil
}

func (m memParticipants) SetAdmin(ctx context.Context, conversationID, userID string, isAdmin bool) (bool, error) {
	unlock, err := m.r.lock(ctx, "SetAdmin")
	if err != nil {
		return false, err
	}
	defer unlock()
	p, ok := m.r.data.participants[conversationID][userID]
	if !ok || p.IsAdmin == isAdmin {
		return false, nil
	}
	p.IsAdmin = isAdmin
	m.r.data.participants[conversationID][userID] = p
	return true, nil
}

func (m memParticipants) UpdateReadTime(ctx context.Context, conversationID, userID string, at int64) error {
	return m.update(ctx, "UpdateReadTime", conversationID, userID, func(p *chat.Participant) { p.LastReadTime = &at })
}

func (m memParticipants) UpdateGroupReadTime(ctx context.Context, conversationID, userID string, at int64) error {
	return m.update(ctx, "UpdateGroupReadTime", conversationID, userID, func(p *chat.Participant) { p.LastGroupReadTime = &at })
}

func (m memParticipants) update(ctx context.Context, op, conversationID, userID string, fn func(*chat.Participant)) error {
	unlock, err := m.r.lock(ctx, op)
	if err != nil {
		return err
	}
	defer unlock()
	p, ok := m.r.data.participants[conversationID][userID]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&p)
	m.r.data.participants[conversationID][userID] = p
	return nil
}

// --- stream ---

type memStream struct{ r *MemoryChatRepository }

func (m memStream) AppendMessages(ctx context.Context, ms []chat.Message) error {
	unlock, err := m.r.lock(ctx, "AppendMessages")
	if err != nil {
		return err
	}
	defer unlock()
	for _, msg := range ms {
		if _, ok := m.r.data.conversations[msg.ConversationID]; !ok {
			return repository.ErrNotFound
		}
	}
	for _, msg := range ms {
		m.r.data.messages[msg.ID] = msg
	}
	return nil
}

func (m memStream) AppendNotifications(ctx context.Context, ns []chat.Notification) error {
	unlock, err := m.r.lock(ctx, "AppendNotifications")
	if err != nil {
		return err
	}
	defer unlock()
	for _, n := range ns {
		if _, ok := m.r.data.conversations[n.ConversationID]; !ok {
			return repository.ErrNotFound
		}
	}
	for _, n := range ns {
		m.r.data.notifications[n.ID] = n
	}
	return nil
}

func (m memStream) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	unlock, err := m.r.lock(ctx, "ListMessages")
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []chat.Message
	for _, msg := range m.r.data.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	sortMessages(out)
	return out, nil
}

func (m memStream) ListNotifications(ctx context.Context, conversationID string) ([]chat.Notification, error) {
	unlock, err := m.r.lock(ctx, "ListNotifications")
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []chat.Notification
	for _, n := range m.r.data.notifications {
		if n.ConversationID == conversationID {
			out = append(out, n)
		}
	}
	sortNotifications(out)
	return out, nil
}

func (m memStream) LatestMessage(ctx context.Context, conversationID string) (chat.Message, error) {
	msgs, err := m.ListMessages(ctx, conversationID)
	if err != nil {
		return chat.Message{}, err
	}
	if len(msgs) == 0 {
		return chat.Message{}, repository.ErrNotFound
	}
	return msgs[len(msgs)-1], nil
}

func (m memStream) FindMessages(ctx context.Context, ids []string) ([]chat.Message, error) {
	unlock, err := m.r.lock(ctx, "FindMessages")
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []chat.Message
	for _, id := range ids {
		if msg, ok := m.r.data.messages[id]; ok {
			out = append(out, msg)
		}
	}
	sortMessages(out)
	return out, nil
}

func (m memStream) FindNotifications(ctx context.Context, ids []string) ([]chat.Notification, error) {
	unlock, err := m.r.lock(ctx, "FindNotifications")
	if err != nil {
		return nil, err
	}
	defer unlock()
	var out []chat.Notification
	for _, id := range ids {
		if n, ok := m.r.data.notifications[id]; ok {
			out = append(out, n)
		}
	}
	sortNotifications(out)
	return out, nil
}

func sortMessages(ms []chat.Message) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].CreatedAt != ms[j].CreatedAt {
			return ms[i].CreatedAt < ms[j].CreatedAt
		}
		return ms[i].ID < ms[j].ID
	})
}

func sortNotifications(ns []chat.Notification) {
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].CreatedAt != ns[j].CreatedAt {
			return ns[i].CreatedAt < ns[j].CreatedAt
		}
		return ns[i].ID < ns[j].ID
	})
}
