package client

import (
	"sync"

	"github.com/mcg-platform/componentgen/internal/domain"
)

// Snapshot is the persisted shape of the workspace state.
type Snapshot struct {
	Sessions      []domain.Session `json:"sessions"`
	ActiveSession *domain.Session  `json:"activeSession"`
}

// Mirror persists snapshots across restarts. Load returning a zero snapshot
// and nil error means nothing was persisted yet.
type Mirror interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// State is the workspace's session container. The active session is always
// a copy of one element of the list; every mutation updates both and
// persists through the mirror.
type State struct {
	mu       sync.Mutex
	sessions []domain.Session
	active   *domain.Session
	mirror   Mirror
}

// NewState builds a state container, seeding it from the mirror. A corrupt
// or missing snapshot starts empty rather than failing.
func NewState(mirror Mirror) *State {
	s := &State{mirror: mirror}
	if mirror != nil {
		if snap, err := mirror.Load(); err == nil {
			s.sessions = snap.Sessions
			s.active = snap.ActiveSession
		}
	}
	return s
}

func (s *State) persist() {
	if s.mirror == nil {
		return
	}
	// Persistence failures are non-fatal; next mutation retries.
	_ = s.mirror.Save(Snapshot{Sessions: s.sessions, ActiveSession: s.active})
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]domain.Session, len(s.sessions))
	copy(sessions, s.sessions)

	var active *domain.Session
	if s.active != nil {
		c := *s.active
		active = &c
	}
	return Snapshot{Sessions: sessions, ActiveSession: active}
}

// Active returns a copy of the active session, nil when none is selected.
func (s *State) Active() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	c := *s.active
	return &c
}

// SetSessions replaces the session list.
func (s *State) SetSessions(sessions []domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = sessions
	s.persist()
}

// AddSession prepends a session and makes it active.
func (s *State) AddSession(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append([]domain.Session{session}, s.sessions...)
	c := session
	s.active = &c
	s.persist()
}

// RemoveSession drops a session by hex id. When the active session is
// removed, the newest remaining session becomes active, or none.
func (s *State) RemoveSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.ID.Hex() != id {
			kept = append(kept, sess)
		}
	}
	s.sessions = kept

	if s.active != nil && s.active.ID.Hex() == id {
		if len(s.sessions) > 0 {
			c := s.sessions[0]
			s.active = &c
		} else {
			s.active = nil
		}
	}
	s.persist()
}

// SetActive selects a session as active.
func (s *State) SetActive(session *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		s.active = nil
	} else {
		c := *session
		s.active = &c
	}
	s.persist()
}

// UpdateActive overwrites the carried fields on the active session and on
// its element in the list, keeping the two views identical. A no-op when no
// session is active. Chat turn times are canonicalized before the write.
func (s *State) UpdateActive(update domain.SessionUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return
	}

	if update.ChatMessages != nil {
		canon := FormatTurnsForStorage(*update.ChatMessages)
		update.ChatMessages = &canon
	}

	update.ApplyTo(s.active)

	for i := range s.sessions {
		if s.sessions[i].ID == s.active.ID {
			update.ApplyTo(&s.sessions[i])
			break
		}
	}
	s.persist()
}
