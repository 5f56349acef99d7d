// Package ws bridges a puzzle to one remote renderer over a WebSocket.
//
// The renderer receives the full sticker state and an animate message for
// every queued turn. It replies with animated once the rotation has played;
// only then is the turn painted and the next one started.
package ws

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/SeamusWaldron/twisty/internal/cube"
	"github.com/SeamusWaldron/twisty/pkg/types"
)

// Message types.
const (
	TypeTurn     = "turn"
	TypeShuffle  = "shuffle"
	TypeAnimated = "animated"
	TypeState    = "state"
	TypeAnimate  = "animate"
	TypeError    = "error"
)

// BaseMessage lets us route JSON messages by type.
type BaseMessage struct {
	Type string `json:"type"`
}

// DecodeBase reads only the type field of a message.
func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// TurnMsg asks the server to queue a turn.
type TurnMsg struct {
	Type string `json:"type"`
	types.Move
}

// ShuffleMsg asks the server to queue count random turns.
type ShuffleMsg struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// AnimatedMsg reports that the renderer finished animating turn ID.
type AnimatedMsg struct {
	Type string `json:"type"`
	ID   uint64 `json:"id"`
}

// AnimateMsg asks the renderer to play one turn.
type AnimateMsg struct {
	Type string     `json:"type"`
	ID   uint64     `json:"id"`
	Move types.Move `json:"move"`
}

// StateMsg carries every sticker array in canonical slot order.
type StateMsg struct {
	Type     string          `json:"type"`
	Size     int             `json:"size"`
	Palette  []string        `json:"palette"`
	Stickers []cube.Stickers `json:"stickers"`
	Solved   bool            `json:"solved"`
}

// ErrorMsg reports a rejected inbound message.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newStateMsg(s *cube.State) StateMsg {
	pal := s.Palette()
	hex := make([]string, len(pal))
	for i, c := range pal {
		hex[i] = c.Hex()
	}
	return StateMsg{
		Type:     TypeState,
		Size:     s.Size(),
		Palette:  hex,
		Stickers: s.Snapshot(),
		Solved:   s.IsSolved(),
	}
}

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Schemas validates inbound messages by type.
type Schemas struct {
	byType map[string]*jsonschema.Schema
}

// LoadSchemas compiles the embedded inbound message schemas.
func LoadSchemas() (*Schemas, error) {
	c := jsonschema.NewCompiler()
	out := &Schemas{byType: make(map[string]*jsonschema.Schema)}

	for _, typ := range []string{TypeTurn, TypeShuffle, TypeAnimated} {
		name := "schemas/" + typ + ".schema.json"
		b, err := schemaFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		if err := c.AddResource(name, bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", name, err)
		}
		s, err := c.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		out.byType[typ] = s
	}
	return out, nil
}

// Validate checks an inbound message against the schema for its type.
func (s *Schemas) Validate(msg []byte) (BaseMessage, error) {
	base, err := DecodeBase(msg)
	if err != nil {
		return base, fmt.Errorf("invalid message: %w", err)
	}
	schema, ok := s.byType[base.Type]
	if !ok {
		return base, fmt.Errorf("unknown message type %q", base.Type)
	}

	var doc any
	if err := json.Unmarshal(msg, &doc); err != nil {
		return base, fmt.Errorf("invalid message: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return base, fmt.Errorf("invalid %s message: %w", base.Type, err)
	}
	return base, nil
}
