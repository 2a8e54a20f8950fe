package shell

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/sushihentaime/blogist/internal/blogservice"
)

// Session is the page state of one browser. Its methods are safe for
// concurrent requests from that browser.
type Session struct {
	ID string

	mu    sync.Mutex
	shell *Shell
}

// Do runs fn with exclusive access to the session's shell.
func (s *Session) Do(fn func(*Shell)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.shell)
}

// Mode returns the current mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shell.Mode()
}

// SelectedID returns the blog being viewed, or "".
func (s *Session) SelectedID() blogservice.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shell.SelectedID()
}

// Store keeps sessions in memory. A session expires after ttl without use.
type Store struct {
	sessions *cache.Cache
}

func NewStore(ttl, cleanupInterval time.Duration) *Store {
	return &Store{sessions: cache.New(ttl, cleanupInterval)}
}

// Get returns the session for id and extends its lifetime.
func (st *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	v, ok := st.sessions.Get(id)
	if !ok {
		return nil, false
	}

	s := v.(*Session)
	st.sessions.Set(id, s, cache.DefaultExpiration)
	return s, true
}

// New creates a session in Idle mode.
func (st *Store) New() *Session {
	s := &Session{
		ID:    uuid.NewString(),
		shell: New(),
	}
	st.sessions.Set(s.ID, s, cache.DefaultExpiration)
	return s
}

func (st *Store) Len() int {
	return st.sessions.ItemCount()
}
