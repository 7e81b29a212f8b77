package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/talentbase/backend/internal/models"
	"github.com/talentbase/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory doubles of the repository interfaces. They mirror the store
// contract (atomic counter updates, server-assigned timestamps, missing
// counter reads as zero) closely enough to pin the service semantics.

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
	failCreate    error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[string]*models.Conversation)}
}

func (f *fakeConversationRepo) Get(_ context.Context, id string) (*models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conversations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeConversationRepo) Create(_ context.Context, c *models.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	if _, ok := f.conversations[c.ID]; ok {
		return repositories.ErrAlreadyExists
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.UnreadCounts == nil {
		c.UnreadCounts = make(map[string]int)
		for _, p := range c.Participants {
			c.UnreadCounts[p] = 0
		}
	}
	clone := *c
	f.conversations[c.ID] = &clone
	return nil
}

func (f *fakeConversationRepo) ListForUser(_ context.Context, userID string, _ int64) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Conversation
	for _, c := range f.conversations {
		if c.HasParticipant(userID) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeConversationRepo) ApplyMessage(_ context.Context, id string, last models.LastMessage, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conversations[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.LastMessage = &last
	c.UpdatedAt = last.CreatedAt
	if c.UnreadCounts == nil {
		c.UnreadCounts = make(map[string]int)
	}
	c.UnreadCounts[recipientID]++
	return nil
}

func (f *fakeConversationRepo) ResetUnread(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conversations[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if c.UnreadCounts == nil {
		c.UnreadCounts = make(map[string]int)
	}
	c.UnreadCounts[userID] = 0
	return nil
}

func (f *fakeConversationRepo) WatchForUser(context.Context, string) (<-chan []models.Conversation, error) {
	return nil, errors.New("not supported in fake")
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []models.Message
	clock    time.Time
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{clock: time.Now().UTC()}
}

func (f *fakeMessageRepo) Append(_ context.Context, m *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Millisecond)
	m.ID = primitive.NewObjectID()
	m.CreatedAt = f.clock
	m.Read = false
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeMessageRepo) List(_ context.Context, conversationID string, limit int64) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkReadExceptSender(_ context.Context, conversationID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.messages {
		m := &f.messages[i]
		if m.ConversationID == conversationID && m.SenderID != userID {
			m.Read = true
		}
	}
	return nil
}

func (f *fakeMessageRepo) Watch(context.Context, string) (<-chan []models.Message, error) {
	return nil, errors.New("not supported in fake")
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []models.Notification
	fail    func(recipientID string) error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		if err := f.fail(n.RecipientID); err != nil {
			return err
		}
	}
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now().UTC()
	n.Read = false
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) all() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Notification, len(f.created))
	copy(out, f.created)
	return out
}

func (f *fakeNotificationRepo) forRecipient(recipientID string) []models.Notification {
	var out []models.Notification
	for _, n := range f.all() {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, _ int64) ([]models.Notification, error) {
	return f.forRecipient(recipientID), nil
}

func (f *fakeNotificationRepo) UnreadCount(_ context.Context, recipientID string) (int64, error) {
	var count int64
	for _, n := range f.forRecipient(recipientID) {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(_ context.Context, notificationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.created {
		if f.created[i].ID.Hex() == notificationID {
			f.created[i].Read = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(_ context.Context, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.created {
		if f.created[i].RecipientID == recipientID {
			f.created[i].Read = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) WatchByRecipient(context.Context, string) (<-chan []models.Notification, error) {
	return nil, errors.New("not supported in fake")
}

type fakeFollowRepo struct {
	mu        sync.Mutex
	followers map[string][]string // followingID -> follower ids
	failList  error
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{followers: make(map[string][]string)}
}

func (f *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followers[follow.FollowingID] = append(f.followers[follow.FollowingID], follow.FollowerID)
	return nil
}

func (f *fakeFollowRepo) DeleteFollow(followerID, followingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.followers[followingID]
	for i, id := range ids {
		if id == followerID {
			f.followers[followingID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return errors.New("follow relationship not found")
}

func (f *fakeFollowRepo) IsFollowing(followerID, followingID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.followers[followingID] {
		if id == followerID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollowRepo) GetFollowerIDs(userID string, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	ids := f.followers[userID]
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

func (f *fakeFollowRepo) GetFollowingIDs(string, int) ([]string, error) {
	return nil, nil
}

type fakeSkillRepo struct {
	mu     sync.Mutex
	skills map[string]*models.Skill
}

func newFakeSkillRepo() *fakeSkillRepo {
	return &fakeSkillRepo{skills: make(map[string]*models.Skill)}
}

func (f *fakeSkillRepo) CreateSkill(_ context.Context, s *models.Skill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = primitive.NewObjectID()
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	clone := *s
	f.skills[s.ID.Hex()] = &clone
	return nil
}

func (f *fakeSkillRepo) GetSkill(_ context.Context, userID, skillID string) (*models.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.skills[skillID]
	if !ok || s.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeSkillRepo) ListByUser(_ context.Context, userID string) ([]models.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Skill
	for _, s := range f.skills {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeSkillRepo) UpdateSkill(_ context.Context, s *models.Skill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.skills[s.ID.Hex()]
	if !ok || existing.UserID != s.UserID {
		return repositories.ErrNotFound
	}
	s.UpdatedAt = time.Now().UTC()
	clone := *s
	f.skills[s.ID.Hex()] = &clone
	return nil
}
