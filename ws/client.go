package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/antonmedv/expr/vm"
	"github.com/gorilla/websocket"
	"github.com/khnpedu/tension-meeting/globals"
	"github.com/khnpedu/tension-meeting/room"
	"github.com/khnpedu/tension-meeting/store"
	"github.com/khnpedu/tension-meeting/types"
	"github.com/mitchellh/mapstructure"
)

const adviceTimeout = 30 * time.Second

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan []byte

	// anchor of this session: empty roomId means the room-list view
	mu            sync.Mutex
	roomId        string
	participantId string

	// optional compiled filter over the room-list view
	filterProg *vm.Program

	// push coalescing state, only touched from the hub loop
	lastHash uint64
	hasHash  bool

	doneChan chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, roomId, participantId string, filterProg *vm.Program) *Client {
	return &Client{
		hub:           hub,
		conn:          conn,
		Send:          make(chan []byte, sendChannelSize),
		roomId:        roomId,
		participantId: participantId,
		filterProg:    filterProg,
		doneChan:      make(chan struct{}),
	}
}

func (c *Client) Anchor() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomId, c.participantId
}

func (c *Client) SetAnchor(roomId, participantId string) {
	c.mu.Lock()
	c.roomId = roomId
	c.participantId = participantId
	c.mu.Unlock()
}

func (c *Client) ClearAnchor() {
	c.SetAnchor("", "")
}

// seenHash remembers the hash of the last delivered payload and reports
// whether the new one is identical. Called from the hub loop only.
func (c *Client) seenHash(hash uint64) bool {
	if c.hasHash && c.lastHash == hash {
		return true
	}
	c.lastHash = hash
	c.hasHash = true
	return false
}

// ReadLoop pumps messages from the websocket connection to the hub.
//
// The application runs ReadLoop in a per-connection goroutine. The application
// ensures that there is at most one reader on a connection by executing all
// reads from this goroutine.
func (c *Client) ReadLoop() {
	defer func() {
		c.conn.Close()
		close(c.doneChan)
		c.hub.Unregister <- c
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				globals.AppLogger.Debug("ws closed unexpected", "error", err)
			}
			return
		}
		message := &types.WebsocketMessage{}
		if err := json.Unmarshal(raw, message); err != nil {
			globals.AppLogger.Debug("could not unmarshal ws message", "error", err)
			return
		}
		payload := make(map[string]interface{})
		if len(message.Data) > 0 {
			if err := json.Unmarshal(message.Data, &payload); err != nil {
				globals.AppLogger.Debug("could not unmarshal ws payload", "error", err)
				return
			}
		}

		switch message.Event {
		case types.MessageTypeJoin:
			joinMsg := types.JoinMessage{}
			if err := mapstructure.WeakDecode(payload, &joinMsg); err != nil {
				c.sendError("invalid join message")
				continue
			}
			participantId, err := c.hub.repo.Join(joinMsg.RoomId, joinMsg.TeamIndex, joinMsg.Name)
			if err != nil {
				c.sendError(joinErrorText(err))
				continue
			}
			c.SetAnchor(joinMsg.RoomId, participantId)
			c.reply(types.MessageTypeJoined, types.JoinedMessage{
				RoomId:        joinMsg.RoomId,
				ParticipantId: participantId,
			})
			// the join mutation itself triggers the next push, no refresh needed

		case types.MessageTypeAnchor:
			anchorMsg := types.AnchorMessage{}
			if err := mapstructure.WeakDecode(payload, &anchorMsg); err != nil {
				c.sendError("invalid anchor message")
				continue
			}
			c.SetAnchor(anchorMsg.RoomId, anchorMsg.ParticipantId)
			c.hub.refresh <- c

		case types.MessageTypeAdvice:
			adviceMsg := types.AdviceMessage{}
			if err := mapstructure.WeakDecode(payload, &adviceMsg); err != nil {
				c.sendError("invalid advice message")
				continue
			}
			// one-shot round-trip to the advisory service, off the read loop
			go func(prompt string) {
				ctx, cancel := context.WithTimeout(context.Background(), adviceTimeout)
				defer cancel()
				text := c.hub.advice.Advise(ctx, prompt)
				c.reply(types.MessageTypeAdviceReply, types.AdviceReplyMessage{Text: text})
			}(adviceMsg.Prompt)

		default:
			c.sendError("unknown message type")
		}
	}
}

func joinErrorText(err error) string {
	switch err {
	case store.ErrRoomNotFound:
		return "room not found"
	case room.ErrNameRequired:
		return "name required"
	case room.ErrInvalidTeamIndex:
		return "team index out of range"
	default:
		return "join failed"
	}
}

func (c *Client) reply(event string, payload interface{}) {
	data, err := types.NewWebsocketMessage(event, payload)
	if err != nil {
		globals.AppLogger.Error("could not marshal reply", "error", err)
		return
	}
	select {
	case c.Send <- data:
	case <-c.doneChan:
	}
}

func (c *Client) sendError(text string) {
	c.reply(types.MessageTypeError, types.ErrorMessage{Error: text})
}

// WriteLoop pumps messages from the hub to the websocket connection.
//
// A goroutine running WriteLoop is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) WriteLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				globals.AppLogger.Debug("could not write to ws connection, exiting write loop")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				globals.AppLogger.Debug("could not send ping message, exiting write loop")
				return
			}

		case <-c.doneChan:
			return
		}
	}
}
