// Package realtime maintains per-user continuous queries over conversations,
// messages and notifications, delivering full re-sorted snapshots to
// registered callbacks. Consumers treat every delivery as an authoritative
// replacement of the previous one, never as a diff.
package realtime

import (
	"context"
	"sync"

	"github.com/talentbase/backend/internal/models"
)

// Kind names a live resource stream.
type Kind string

const (
	KindConversations Kind = "conversations"
	KindMessages      Kind = "messages"
	KindNotifications Kind = "notifications"
)

// Snapshot is one authoritative delivery. Exactly one of the collection
// fields is populated, matching Kind. UnreadTotal is derived from the
// snapshot itself so badge counters can never drift from the data shown.
type Snapshot struct {
	Kind          Kind                      `json:"kind"`
	Scope         string                    `json:"scope,omitempty"`
	Conversations []models.ConversationView `json:"conversations,omitempty"`
	Messages      []models.Message          `json:"messages,omitempty"`
	Notifications []models.Notification     `json:"notifications,omitempty"`
	UnreadTotal   int                       `json:"unread_total"`
}

// ConversationWatcher streams full conversation snapshots for a user.
type ConversationWatcher interface {
	WatchForUser(ctx context.Context, userID string) (<-chan []models.Conversation, error)
}

// MessageWatcher streams full ordered message snapshots for a conversation.
type MessageWatcher interface {
	Watch(ctx context.Context, conversationID string) (<-chan []models.Message, error)
}

// NotificationWatcher streams full notification snapshots for a recipient.
type NotificationWatcher interface {
	WatchByRecipient(ctx context.Context, recipientID string) (<-chan []models.Notification, error)
}

type subKey struct {
	userID string
	kind   Kind
	scope  string
}

type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager keeps at most one live subscription per (user, kind, scope) triple.
// Registering a new subscription for a key tears the previous one down first,
// so a user can never accumulate duplicate listeners for the same stream.
type Manager struct {
	conversations ConversationWatcher
	messages      MessageWatcher
	notifications NotificationWatcher

	mu   sync.Mutex
	subs map[subKey]*subscription
}

// NewManager creates a new Manager
func NewManager(conversations ConversationWatcher, messages MessageWatcher, notifications NotificationWatcher) *Manager {
	return &Manager{
		conversations: conversations,
		messages:      messages,
		notifications: notifications,
		subs:          make(map[subKey]*subscription),
	}
}

// SubscribeConversations delivers the user's conversation list, annotated
// with their unread counters, on every underlying change. The returned cancel
// is idempotent and blocks until no further callbacks will run.
func (m *Manager) SubscribeConversations(ctx context.Context, userID string, fn func(Snapshot)) (func(), error) {
	key := subKey{userID: userID, kind: KindConversations}
	subCtx, cancel := context.WithCancel(ctx)
	ch, err := m.conversations.WatchForUser(subCtx, userID)
	if err != nil {
		cancel()
		return nil, err
	}
	return m.attach(key, cancel, func() {
		for conversations := range ch {
			fn(ConversationSnapshot(userID, conversations))
		}
	}), nil
}

// SubscribeMessages delivers the full ordered message list of one
// conversation on every change.
func (m *Manager) SubscribeMessages(ctx context.Context, userID, conversationID string, fn func(Snapshot)) (func(), error) {
	key := subKey{userID: userID, kind: KindMessages, scope: conversationID}
	subCtx, cancel := context.WithCancel(ctx)
	ch, err := m.messages.Watch(subCtx, conversationID)
	if err != nil {
		cancel()
		return nil, err
	}
	return m.attach(key, cancel, func() {
		for messages := range ch {
			fn(MessageSnapshot(conversationID, messages))
		}
	}), nil
}

// SubscribeNotifications delivers the user's notification feed on every
// change.
func (m *Manager) SubscribeNotifications(ctx context.Context, userID string, fn func(Snapshot)) (func(), error) {
	key := subKey{userID: userID, kind: KindNotifications}
	subCtx, cancel := context.WithCancel(ctx)
	ch, err := m.notifications.WatchByRecipient(subCtx, userID)
	if err != nil {
		cancel()
		return nil, err
	}
	return m.attach(key, cancel, func() {
		for notifications := range ch {
			fn(NotificationSnapshot(notifications))
		}
	}), nil
}

// DetachUser synchronously cancels every live subscription of the user, used
// on logout or session teardown. No callback runs after it returns.
func (m *Manager) DetachUser(userID string) {
	m.mu.Lock()
	var victims []*subscription
	for key, sub := range m.subs {
		if key.userID == userID {
			victims = append(victims, sub)
			delete(m.subs, key)
		}
	}
	m.mu.Unlock()

	for _, sub := range victims {
		sub.cancel()
		<-sub.done
	}
}

func (m *Manager) attach(key subKey, cancel context.CancelFunc, run func()) func() {
	sub := &subscription{cancel: cancel, done: make(chan struct{})}

	// Replace the previous entry in one critical section so the map always
	// points at the live subscription; a concurrent DetachUser sees either
	// the old one or this one, never a gap.
	m.mu.Lock()
	prev := m.subs[key]
	m.subs[key] = sub
	m.mu.Unlock()

	// Previous listener finishes before the new one starts delivering.
	if prev != nil {
		prev.cancel()
		<-prev.done
	}

	go func() {
		defer close(sub.done)
		run()
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-sub.done
			m.mu.Lock()
			if current, ok := m.subs[key]; ok && current == sub {
				delete(m.subs, key)
			}
			m.mu.Unlock()
		})
	}
}

// ConversationSnapshot builds the per-user conversation delivery. The unread
// total is the sum of the viewer's counters across the snapshot.
func ConversationSnapshot(userID string, conversations []models.Conversation) Snapshot {
	views := make([]models.ConversationView, 0, len(conversations))
	total := 0
	for _, c := range conversations {
		view := c.ViewFor(userID)
		total += view.UnreadCount
		views = append(views, view)
	}
	return Snapshot{Kind: KindConversations, Conversations: views, UnreadTotal: total}
}

// MessageSnapshot builds the per-conversation message delivery.
func MessageSnapshot(conversationID string, messages []models.Message) Snapshot {
	unread := 0
	for _, m := range messages {
		if !m.Read {
			unread++
		}
	}
	return Snapshot{Kind: KindMessages, Scope: conversationID, Messages: messages, UnreadTotal: unread}
}

// NotificationSnapshot builds the notification feed delivery.
func NotificationSnapshot(notifications []models.Notification) Snapshot {
	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}
	return Snapshot{Kind: KindNotifications, Notifications: notifications, UnreadTotal: unread}
}
