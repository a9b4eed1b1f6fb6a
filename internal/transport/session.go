// Package transport owns the persistent connection to the game server: the
// join handshake, outgoing control messages, and decoding of the compressed
// frames the server pushes.
package transport

import (
	"fmt"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/tractorbot/internal/codec"
	"github.com/lox/tractorbot/internal/protocol"
)

// Session is the agent's exclusive handle on one connection. There is exactly
// one reader and one writer, used alternately, never concurrently, so no
// locking is required.
type Session struct {
	conn   *websocket.Conn
	codec  *codec.Codec
	logger *log.Logger
}

// Connect dials the server and sends the join request. The frame codec is
// bootstrapped before the join goes out so the first pushed frame can be
// decoded.
func Connect(serverURL, room, name string, logger *log.Logger) (*Session, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	// Ensure WebSocket scheme
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// Already correct
	default:
		u.Scheme = "ws"
	}

	c, err := codec.New()
	if err != nil {
		return nil, fmt.Errorf("prepare codec: %w", err)
	}

	logger.Info("Connecting to server", "url", u.String())
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	s := &Session{conn: conn, codec: c, logger: logger}
	if err := conn.WriteJSON(protocol.Join{RoomName: room, Name: name}); err != nil {
		s.Close()
		return nil, fmt.Errorf("join room %q: %w", room, err)
	}
	logger.Info("Joined room", "room", room, "name", name, "dict_bytes", c.DictLen())
	return s, nil
}

// Send transmits one envelope as a text frame. Fire and forget: no reply is
// awaited.
func (s *Session) Send(env protocol.Envelope) error {
	if err := s.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("send %s: %w", env.Type, err)
	}
	return nil
}

// SendReady signals readiness during Initialize.
func (s *Session) SendReady() error {
	return s.Send(protocol.Ready())
}

// SendAction transmits a move.
func (s *Session) SendAction(a protocol.Action) error {
	env, err := protocol.NewAction(a)
	if err != nil {
		return err
	}
	s.logger.Debug("Sending action", "action", a.String())
	return s.Send(env)
}

// SendChat transmits free text to the room.
func (s *Session) SendChat(text string) error {
	env, err := protocol.NewChat(text)
	if err != nil {
		return err
	}
	return s.Send(env)
}

// ReceiveEnvelope blocks until one frame arrives and decodes it. Anything
// other than a decodable binary frame is a protocol error and fatal to the
// session.
func (s *Session) ReceiveEnvelope() (protocol.Envelope, error) {
	messageType, data, err := s.conn.ReadMessage()
	if err != nil {
		return protocol.Envelope{}, fmt.Errorf("read frame: %w", err)
	}
	if messageType != websocket.BinaryMessage {
		return protocol.Envelope{}, fmt.Errorf("unexpected frame type %d", messageType)
	}

	decompressed, err := s.codec.Decompress(data)
	if err != nil {
		return protocol.Envelope{}, err
	}
	return protocol.ParseEnvelope(decompressed)
}

// AwaitNextState receives frames until a state snapshot arrives, discarding
// chatter. A server-reported error is surfaced immediately, after a
// best-effort farewell to the room.
func (s *Session) AwaitNextState() (protocol.Snapshot, error) {
	for {
		env, err := s.ReceiveEnvelope()
		if err != nil {
			return protocol.Snapshot{}, err
		}

		switch env.Type {
		case protocol.TypeState:
			return env.State()
		case protocol.TypeError:
			se, err := env.Err()
			if err != nil {
				return protocol.Snapshot{}, err
			}
			if err := s.SendChat(fmt.Sprintf("leaving: %s", se.Message)); err != nil {
				s.logger.Debug("Farewell failed", "error", err)
			}
			return protocol.Snapshot{}, se
		case protocol.TypeMessage:
			if chat, err := env.Chat(); err == nil {
				s.logger.Debug("Chat", "from", chat.From, "text", chat.Text)
			}
		default:
			s.logger.Debug("Ignoring envelope", "type", env.Type)
		}
	}
}

// Close sends a best-effort close frame and releases the connection and its
// codec.
func (s *Session) Close() error {
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := s.conn.Close()
	s.codec.Close()
	return err
}
