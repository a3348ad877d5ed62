package store

import (
	"sync"
	"time"

	"github.com/agrichat/agrichat-api/internal/chat"
	"github.com/agrichat/agrichat-api/internal/weather"
)

// WelcomeMessage seeds the chat so the client never renders an empty history.
const WelcomeMessage = "Welcome to AgriChat! I'm your agricultural assistant. Ask me about plants, farming techniques, crop information, or weather advice."

// MemoryStore is a concurrency-safe in-memory record keeper for chat messages
// and weather cache entries. It implements chat.MessageStore and
// weather.CacheStore.
//
// Message ids are process-wide monotonic starting at 1; the weather cache
// keeps at most one entry per location key (last write wins).
type MemoryStore struct {
	mu sync.Mutex

	messages  []chat.Message
	nextMsgID int

	cache         map[string]weather.CacheEntry
	nextWeatherID int

	now func() time.Time
}

// New creates a MemoryStore pre-seeded with the welcome message.
func New() *MemoryStore {
	s := &MemoryStore{
		nextMsgID:     1,
		cache:         make(map[string]weather.CacheEntry),
		nextWeatherID: 1,
		now:           time.Now,
	}
	s.SaveMessage(chat.MessageDraft{Content: WelcomeMessage, IsUser: false})
	return s
}

// Messages returns all messages in ascending id order. A positive limit
// returns only the most recent limit entries, still oldest first.
func (s *MemoryStore) Messages(limit int) []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out
}

// SaveMessage assigns the next id and the current instant, stores the message,
// and returns the stored copy. Content validation is the caller's job.
func (s *MemoryStore) SaveMessage(draft chat.MessageDraft) chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveLocked(draft)
}

func (s *MemoryStore) saveLocked(draft chat.MessageDraft) chat.Message {
	msg := chat.Message{
		ID:        s.nextMsgID,
		UserID:    draft.UserID,
		Content:   draft.Content,
		IsUser:    draft.IsUser,
		Timestamp: s.now(),
	}
	s.nextMsgID++
	s.messages = append(s.messages, msg)
	return msg
}

// ClearMessages empties the table and immediately reseeds the welcome message,
// so the table is never empty after this returns. The id counter keeps
// counting; ids are never reused within a process lifetime.
func (s *MemoryStore) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
	s.saveLocked(chat.MessageDraft{Content: WelcomeMessage, IsUser: false})
}

// WeatherCache looks up the entry for an exact location key. Absence is not
// an error.
func (s *MemoryStore) WeatherCache(location string) (weather.CacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[location]
	return entry, ok
}

// SaveWeatherCache stores data under the location key, overwriting any prior
// entry for that key.
func (s *MemoryStore) SaveWeatherCache(location string, data weather.Data) weather.CacheEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := weather.CacheEntry{
		ID:        s.nextWeatherID,
		Location:  location,
		Data:      data,
		Timestamp: s.now(),
	}
	s.nextWeatherID++
	s.cache[location] = entry
	return entry
}
