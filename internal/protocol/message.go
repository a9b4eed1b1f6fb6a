// Package protocol defines the wire envelopes exchanged with the game server
// and the phase snapshots it pushes.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/lox/tractorbot/internal/card"
)

// MessageType identifies an envelope variant.
type MessageType string

const (
	// Client -> Server
	TypeReady  MessageType = "ready"
	TypeAction MessageType = "action"

	// Server -> Client
	TypeState MessageType = "state"
	TypeError MessageType = "error"

	// Both directions
	TypeMessage MessageType = "message"
)

// Envelope is the tagged union every frame carries after the join handshake.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Join is the first frame of a connection, sent bare rather than enveloped.
type Join struct {
	RoomName string `json:"room_name"`
	Name     string `json:"name"`
}

// Action is the externally tagged union of moves. Exactly one field is set.
type Action struct {
	DrawCard  *DrawCard  `json:"draw_card,omitempty"`
	Bid       *Bid       `json:"bid,omitempty"`
	Exchange  *Exchange  `json:"exchange,omitempty"`
	PlayCards *PlayCards `json:"play_cards,omitempty"`
}

// DrawCard requests the next card from the deck.
type DrawCard struct{}

// Bid declares trump with count copies of a level-rank card.
type Bid struct {
	Card  card.Card `json:"card"`
	Count int       `json:"count"`
}

// Exchange buries the listed cards as the new kitty.
type Exchange struct {
	Cards []card.Card `json:"cards"`
}

// PlayCards plays a combination into the current trick.
type PlayCards struct {
	Cards []card.Card `json:"cards"`
}

func (a Action) String() string {
	switch {
	case a.DrawCard != nil:
		return "draw_card"
	case a.Bid != nil:
		return fmt.Sprintf("bid %dx%s", a.Bid.Count, a.Bid.Card)
	case a.Exchange != nil:
		return fmt.Sprintf("exchange %d cards", len(a.Exchange.Cards))
	case a.PlayCards != nil:
		return fmt.Sprintf("play %v", a.PlayCards.Cards)
	default:
		return "none"
	}
}

// Chat is the payload of an incoming message envelope.
type Chat struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// ServerError is the payload of an error envelope. It satisfies error so it
// can surface directly through the agent's fatal path.
type ServerError struct {
	Message string `json:"message"`
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: %s", e.Message)
}

// Ready builds the readiness envelope.
func Ready() Envelope {
	return Envelope{Type: TypeReady}
}

// NewAction wraps a move in an action envelope.
func NewAction(a Action) (Envelope, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode action: %w", err)
	}
	return Envelope{Type: TypeAction, Payload: payload}, nil
}

// NewChat wraps free text in a message envelope.
func NewChat(text string) (Envelope, error) {
	payload, err := json.Marshal(text)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode chat: %w", err)
	}
	return Envelope{Type: TypeMessage, Payload: payload}, nil
}

// ParseEnvelope decodes one decompressed frame.
func ParseEnvelope(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if e.Type == "" {
		return Envelope{}, fmt.Errorf("decode envelope: missing type")
	}
	return e, nil
}

// State decodes the snapshot payload of a state envelope.
func (e Envelope) State() (Snapshot, error) {
	if e.Type != TypeState {
		return Snapshot{}, fmt.Errorf("not a state envelope: %s", e.Type)
	}
	var s Snapshot
	if err := json.Unmarshal(e.Payload, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode state: %w", err)
	}
	return s, nil
}

// Chat decodes the payload of an incoming message envelope.
func (e Envelope) Chat() (Chat, error) {
	if e.Type != TypeMessage {
		return Chat{}, fmt.Errorf("not a message envelope: %s", e.Type)
	}
	var c Chat
	if err := json.Unmarshal(e.Payload, &c); err != nil {
		return Chat{}, fmt.Errorf("decode chat: %w", err)
	}
	return c, nil
}

// Err decodes the payload of an error envelope.
func (e Envelope) Err() (*ServerError, error) {
	if e.Type != TypeError {
		return nil, fmt.Errorf("not an error envelope: %s", e.Type)
	}
	var se ServerError
	if err := json.Unmarshal(e.Payload, &se); err != nil {
		return nil, fmt.Errorf("decode error payload: %w", err)
	}
	return &se, nil
}
