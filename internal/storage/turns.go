package storage

import (
	"database/sql"
	"fmt"

	"github.com/SeamusWaldron/twisty/pkg/types"
)

// Turn sources recorded in the journal.
const (
	SourceAPI     = types.SourceAPI
	SourceGesture = types.SourceGesture
	SourceShuffle = types.SourceShuffle
	SourceRemote  = types.SourceRemote
)

// TurnRecord is a journaled turn.
type TurnRecord struct {
	TurnID    int64  `json:"-"`
	SessionID string `json:"session_id"`
	TurnIndex int    `json:"index"`
	TsMs      int64  `json:"ts_ms"`
	Axis      string `json:"axis"`
	Layer     int    `json:"layer"`
	Direction int    `json:"direction"`
	Notation  string `json:"notation"`
	Source    string `json:"source"`
}

// Move returns the turn as a move value.
func (t TurnRecord) Move() (types.Move, error) {
	axis, err := types.ParseAxis(t.Axis)
	if err != nil {
		return types.Move{}, err
	}
	return types.Move{Axis: axis, Layer: t.Layer, Direction: types.Direction(t.Direction)}, nil
}

// TurnRepository provides CRUD operations for turns.
type TurnRepository struct {
	db *DB
}

// NewTurnRepository creates a new turn repository.
func NewTurnRepository(db *DB) *TurnRepository {
	return &TurnRepository{db: db}
}

const insertTurn = `
	INSERT INTO turns (session_id, turn_index, ts_ms, axis, layer, direction, notation, source)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// Create records a turn and returns its ID.
func (r *TurnRepository) Create(sessionID string, index int, tsMs int64, m types.Move, source string) (int64, error) {
	result, err := r.db.Exec(insertTurn,
		sessionID, index, tsMs, m.Axis.String(), m.Layer, int(m.Direction), m.Notation(), source)
	if err != nil {
		return 0, fmt.Errorf("failed to create turn: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get turn ID: %w", err)
	}

	return id, nil
}

// CreateBatch records several turns in a single transaction.
func (r *TurnRepository) CreateBatch(sessionID string, startIndex int, tsMs int64, moves []types.Move, source string) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for i, m := range moves {
			_, err := tx.Exec(insertTurn,
				sessionID, startIndex+i, tsMs, m.Axis.String(), m.Layer, int(m.Direction), m.Notation(), source)
			if err != nil {
				return fmt.Errorf("failed to create turn %d: %w", startIndex+i, err)
			}
		}
		return nil
	})
}

// GetBySession retrieves a session's turns in order.
func (r *TurnRepository) GetBySession(sessionID string) ([]TurnRecord, error) {
	rows, err := r.db.Query(`
		SELECT turn_id, session_id, turn_index, ts_ms, axis, layer, direction, notation, source
		FROM turns
		WHERE session_id = ?
		ORDER BY turn_index
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get turns: %w", err)
	}
	defer rows.Close()

	var turns []TurnRecord
	for rows.Next() {
		var t TurnRecord
		err := rows.Scan(&t.TurnID, &t.SessionID, &t.TurnIndex, &t.TsMs, &t.Axis, &t.Layer, &t.Direction, &t.Notation, &t.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}

	return turns, rows.Err()
}

// Moves returns a session's turns as move values.
func (r *TurnRepository) Moves(sessionID string) ([]types.Move, error) {
	turns, err := r.GetBySession(sessionID)
	if err != nil {
		return nil, err
	}

	moves := make([]types.Move, 0, len(turns))
	for _, t := range turns {
		m, err := t.Move()
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", t.TurnIndex, err)
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// Count returns the number of turns in a session.
func (r *TurnRepository) Count(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM turns WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count turns: %w", err)
	}
	return count, nil
}
