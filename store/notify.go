package store

import (
	"sync"

	"github.com/khnpedu/tension-meeting/globals"
	"github.com/khnpedu/tension-meeting/types"
)

// notifier fans committed snapshots out to the store subscribers. Pushes are
// serialized under the lock, so a single subscriber observes snapshots in the
// order they were collected. Collection granularity only, no per-room diffs.
type notifier struct {
	mu     sync.Mutex
	nextId int
	subs   map[int]func([]*types.Room)
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]func([]*types.Room))}
}

func (n *notifier) subscribe(fn func([]*types.Room)) func() {
	n.mu.Lock()
	id := n.nextId
	n.nextId++
	n.subs[id] = fn
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

func (n *notifier) push(rooms []*types.Room) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, fn := range n.subs {
		fn(rooms)
	}
}

// pushCurrent collects the current collection via getRooms and pushes it.
// Called by the backends after every committed mutation.
func (n *notifier) pushCurrent(getRooms func() ([]*types.Room, error)) {
	rooms, err := getRooms()
	if err != nil {
		globals.AppLogger.Error("could not collect rooms for push", "error", err)
		return
	}
	n.push(rooms)
}
