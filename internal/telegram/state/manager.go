package state

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Step is the position of a chat in the proposal dialog.
type Step string

const (
	StepIdle                 Step = "IDLE"
	StepAwaitingRequirements Step = "AWAITING_REQUIREMENTS"
	StepGenerating           Step = "GENERATING"
)

// ChatState is the per-chat dialog state. Chats are independent; state is
// kept in memory and expires after a day of inactivity.
type ChatState struct {
	Step      Step
	Enhanced  bool
	LastRunID string
}

const (
	stateTTL        = 24 * time.Hour
	cleanupInterval = time.Hour
)

// Manager stores chat states keyed by chat ID.
type Manager struct {
	cache *gocache.Cache
}

func NewManager() *Manager {
	return &Manager{
		cache: gocache.New(stateTTL, cleanupInterval),
	}
}

// Get returns the chat state, or a fresh idle state for unknown chats.
func (m *Manager) Get(chatID int64) *ChatState {
	if cached, found := m.cache.Get(key(chatID)); found {
		if st, ok := cached.(*ChatState); ok {
			return st
		}
	}
	return &ChatState{Step: StepIdle}
}

// Set stores the chat state and refreshes its expiration.
func (m *Manager) Set(chatID int64, st *ChatState) {
	m.cache.Set(key(chatID), st, gocache.DefaultExpiration)
}

// Reset drops the chat back to the idle state.
func (m *Manager) Reset(chatID int64) {
	m.cache.Delete(key(chatID))
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
