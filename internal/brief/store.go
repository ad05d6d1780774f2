package brief

import (
	"sync"
	"time"

	"thumbgenius/internal/catalog"
)

// Draft is the last form state the page saved, so a reload restores it.
type Draft struct {
	Brief
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	draft   Draft
	nowFn   func() time.Time
}

func NewStore(c *catalog.Catalog) *Store {
	s := &Store{catalog: c, nowFn: time.Now}
	s.draft = s.defaultDraft()
	return s
}

func (s *Store) Get() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Update applies fn to a copy of the draft and keeps the result only when fn
// succeeds and the brief normalizes cleanly. An empty topic is allowed in a
// draft.
func (s *Store) Update(fn func(*Brief) error) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.draft.Brief
	if fn != nil {
		if err := fn(&next); err != nil {
			return s.draft, err
		}
	}
	normalized, err := next.Normalize(s.catalog)
	if err != nil {
		return s.draft, err
	}

	s.draft = Draft{Brief: normalized, UpdatedAt: s.nowFn()}
	return s.draft, nil
}

func (s *Store) Reset() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft = s.defaultDraft()
	return s.draft
}

func (s *Store) defaultDraft() Draft {
	return Draft{
		Brief:     Defaults(s.catalog),
		UpdatedAt: s.nowFn(),
	}
}
