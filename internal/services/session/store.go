package session

import (
	"sync"
	"time"

	"photobooth/internal/logger"
	"photobooth/internal/model"

	"github.com/google/uuid"
)

// State holds one browser session's gallery: the ordered processed photos,
// the parallel emotion-score history and the last composed strip. Both lists
// are appended within one photoshoot action and cleared together.
type State struct {
	ID string

	mu             sync.Mutex
	entries        []model.GalleryEntry
	emotionHistory []model.EmotionScores
	lastStrip      []byte
	lastSeen       time.Time
}

// Append adds a processed photo with its dominant emotion.
func (s *State) Append(entry model.GalleryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	s.lastSeen = time.Now()
}

// AppendEmotions adds one photo's raw emotion scores to the history.
func (s *State) AppendEmotions(scores model.EmotionScores) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emotionHistory = append(s.emotionHistory, scores)
	s.lastSeen = time.Now()
}

// SetStrip stores the PNG bytes of the most recent photo strip.
func (s *State) SetStrip(png []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastStrip = png
	s.lastSeen = time.Now()
}

// Strip returns the last composed strip, or nil when none exists.
func (s *State) Strip() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStrip
}

// Entries returns a copy of the gallery entries in append order.
func (s *State) Entries() []model.GalleryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.GalleryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// EmotionHistory returns a copy of the per-photo emotion scores in order.
func (s *State) EmotionHistory() []model.EmotionScores {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.EmotionScores, len(s.emotionHistory))
	copy(out, s.emotionHistory)
	return out
}

// Len returns the gallery entry count.
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// ClearAll empties the gallery, the emotion history and the last strip
// together under one lock.
func (s *State) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.emotionHistory = nil
	s.lastStrip = nil
	s.lastSeen = time.Now()
}

func (s *State) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store keeps per-session state keyed by the session cookie id.
type Store struct {
	states map[string]*State
	mu     sync.RWMutex
	ttl    time.Duration
	logger *logger.Logger
}

// NewStore creates a session store with the given idle TTL in minutes.
func NewStore(ttlMinutes int, logger *logger.Logger) *Store {
	return &Store{
		states: make(map[string]*State),
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		logger: logger,
	}
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// Get returns the state for id, creating it on first use.
func (st *Store) Get(id string) *State {
	st.mu.RLock()
	state, exists := st.states[id]
	st.mu.RUnlock()

	if exists {
		return state
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	// Double-check, another request may have created it
	if state, exists := st.states[id]; exists {
		return state
	}

	state = &State{ID: id, lastSeen: time.Now()}
	st.states[id] = state
	st.logger.Info("Created session state: %s", id)
	return state
}

// Count returns the number of live sessions.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.states)
}

// Run sweeps idle sessions on a ticker. Intended to run as a goroutine.
func (st *Store) Run(sweepInterval time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		<-ticker.C
		st.sweep()
	}
}

func (st *Store) sweep() {
	cutoff := time.Now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	for id, state := range st.states {
		if state.idleSince().Before(cutoff) {
			delete(st.states, id)
			st.logger.Info("Evicted idle session: %s", id)
		}
	}
}
