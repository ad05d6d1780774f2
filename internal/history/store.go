package history

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultMaxEntries = 50

var ErrNotFound = errors.New("history entry not found")

type Entry struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Hook      string    `json:"hook,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

type Options struct {
	MaxEntries int
}

// Store keeps generated prompts newest first. Nothing is persisted.
type Store struct {
	mu         sync.Mutex
	entries    []Entry
	maxEntries int
	nowFn      func() time.Time
	newID      func() string
}

func NewStore(opts Options) *Store {
	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	return &Store{
		maxEntries: maxEntries,
		nowFn:      time.Now,
		newID:      uuid.NewString,
	}
}

// Add records a prompt. A prompt identical to the newest entry is not stored
// again and the existing head is returned with added=false.
func (s *Store) Add(prompt, hook, source string) (entry Entry, added bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) > 0 && s.entries[0].Prompt == prompt {
		return s.entries[0], false
	}

	entry = Entry{
		ID:        s.newID(),
		Prompt:    prompt,
		Hook:      hook,
		Source:    source,
		CreatedAt: s.nowFn(),
	}

	s.entries = append([]Entry{entry}, s.entries...)
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[:s.maxEntries]
	}
	return entry, true
}

func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Get(id string) (Entry, error) {
	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}
