package ws

import (
	"sync"
	"time"

	"github.com/khnpedu/tension-meeting/advice"
	"github.com/khnpedu/tension-meeting/globals"
	"github.com/khnpedu/tension-meeting/room"
	"github.com/khnpedu/tension-meeting/types"
	"github.com/mitchellh/hashstructure/v2"
)

const (
	maxMessageSize      = 4096
	pongWait            = 2 * time.Minute
	pingPeriod          = time.Minute
	writeWait           = 10 * time.Second
	sendChannelSize     = 256
	snapshotChannelSize = 64
)

// Hub fans room snapshots out to all connected clients. It is the single local
// subscriber of the repository feed; each client receives its own derived view
// (full list or anchored room) on every push. Pushes whose payload is
// unchanged for a client are coalesced away via a payload hash.
type Hub struct {
	repo   *room.Repository
	advice *advice.Service

	// Registered clients.
	clients map[*Client]struct{}

	// Register a new client to the hub.
	Register chan *Client

	// Unregister a client from the hub.
	Unregister chan *Client

	// refresh asks the hub to re-derive and resend one client's view,
	// used after an anchor change without a store mutation.
	refresh chan *Client

	snapshots    chan []*types.Room
	lastSnapshot []*types.Room
	hasSnapshot  bool

	// mutex for manipulating the clients
	sync.RWMutex
}

func NewHub(repo *room.Repository, adviceSvc *advice.Service) *Hub {
	return &Hub{
		repo:       repo,
		advice:     adviceSvc,
		clients:    make(map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		refresh:    make(chan *Client, sendChannelSize),
		snapshots:  make(chan []*types.Room, snapshotChannelSize),
	}
}

// NoClients returns the number of clients registered
func (h *Hub) NoClients() int {
	h.RLock()
	defer h.RUnlock()
	return len(h.clients)
}

// Run subscribes to the repository feed and runs the main hub event loop
// handling register, unregister and snapshot fan-out.
func (h *Hub) Run() error {
	unsubscribe, err := h.repo.SubscribeRooms(h.enqueueSnapshot)
	if err != nil {
		return err
	}
	defer unsubscribe()
	for {
		select {
		case client := <-h.Register:
			globals.AppLogger.Debug("register new client")
			h.Lock()
			h.clients[client] = struct{}{}
			h.Unlock()
			if h.hasSnapshot {
				h.sendView(client, h.lastSnapshot)
			}

		case client := <-h.Unregister:
			h.Lock()
			if _, ok := h.clients[client]; ok {
				globals.AppLogger.Debug("unregister client")
				delete(h.clients, client)
				client.conn.Close()
				// the Send channel stays open and is collected with the
				// client once WriteLoop has exited via doneChan
			}
			h.Unlock()

		case client := <-h.refresh:
			if h.hasSnapshot {
				h.sendView(client, h.lastSnapshot)
			}

		case rooms := <-h.snapshots:
			h.lastSnapshot = rooms
			h.hasSnapshot = true
			h.RLock()
			for client := range h.clients {
				h.sendView(client, rooms)
			}
			h.RUnlock()
		}
	}
}

// enqueueSnapshot hands a repository push over to the hub loop. When the loop
// lags behind, the oldest queued snapshot is dropped: only the latest state
// matters and coalescing is an accepted property of the feed.
func (h *Hub) enqueueSnapshot(rooms []*types.Room) {
	for {
		select {
		case h.snapshots <- rooms:
			return
		default:
			select {
			case <-h.snapshots:
			default:
			}
		}
	}
}

func (h *Hub) sendView(c *Client, rooms []*types.Room) {
	roomId, participantId := c.Anchor()
	v := room.Project(rooms, roomId, participantId)

	var event string
	var payload interface{}
	switch {
	case roomId != "" && v.Gone:
		event = types.MessageTypeGone
		payload = types.GoneMessage{RoomId: roomId}
		// terminal for this session, next pushes show the room list again
		c.ClearAnchor()
	case v.Room != nil:
		event = types.MessageTypeRoom
		payload = types.RoomMessage{Room: v.Room, Me: v.Me}
	default:
		event = types.MessageTypeRooms
		payload = types.RoomsMessage{Rooms: c.FilterRooms(v.Rooms)}
	}

	hash, err := hashstructure.Hash(payload, hashstructure.FormatV2, nil)
	if err == nil && c.seenHash(hash) {
		return
	}
	data, err := types.NewWebsocketMessage(event, payload)
	if err != nil {
		globals.AppLogger.Error("could not marshal view", "error", err)
		return
	}
	select {
	case c.Send <- data:
	default:
		// client too slow to drain its buffer, skip this push
		globals.AppLogger.Warn("dropping push for slow client")
	}
}
