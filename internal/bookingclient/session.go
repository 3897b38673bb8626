package bookingclient

import "sync"

// Session is the identity state a booking client carries between steps. A
// zero UserID means the session predates the id field and must be resolved
// through the username lookup endpoint.
type Session struct {
	Token    string
	UserID   int
	Username string
	Phone    string
	City     string
}

// SessionStore isolates session persistence behind read/write accessors so
// the checkout flow can be tested without any real storage behind it.
type SessionStore interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// MemorySessionStore is an in-memory SessionStore, safe for concurrent use.
type MemorySessionStore struct {
	mu      sync.Mutex
	session Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Load() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session, nil
}

func (s *MemorySessionStore) Save(session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = session

	return nil
}

func (s *MemorySessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session{}

	return nil
}
