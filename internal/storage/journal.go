package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/SeamusWaldron/twisty/pkg/types"
)

// Journal records the turns of one puzzle session. It is an audit log and is
// never read back to restore puzzle state.
type Journal struct {
	sessions *SessionRepository
	turns    *TurnRepository

	mu        sync.Mutex
	sessionID string
	next      int
	closed    bool
}

// NewJournal starts a session for a puzzle of the given size.
func NewJournal(db *DB, size int, notes string) (*Journal, error) {
	sessions := NewSessionRepository(db)
	id, err := sessions.Create(size, notes)
	if err != nil {
		return nil, err
	}
	return &Journal{
		sessions:  sessions,
		turns:     NewTurnRepository(db),
		sessionID: id,
	}, nil
}

// SessionID returns the journal's session.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Record appends a completed turn.
func (j *Journal) Record(m types.Move, source string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return fmt.Errorf("journal %s is closed", j.sessionID)
	}
	if _, err := j.turns.Create(j.sessionID, j.next, time.Now().UnixMilli(), m, source); err != nil {
		return err
	}
	j.next++
	return nil
}

// Len returns the number of turns recorded.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.next
}

// Close ends the session. Further records fail.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	return j.sessions.End(j.sessionID)
}
