package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/khnpedu/tension-meeting/globals"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades the connection and attaches the client to the hub. The
// session may arrive pre-anchored (query params room + participant, the
// client's persisted "which room/participant am I" memory) and may carry a
// room-list filter expression.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vals := r.URL.Query()
		roomId := vals.Get("room")
		participantId := vals.Get("participant")

		filterProg, err := CompileFilter(vals.Get("filter"))
		if err != nil {
			http.Error(w, "invalid filter expression", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			globals.AppLogger.Error("websocket upgrade error", "error", err)
			return
		}

		client := NewClient(hub, conn, roomId, participantId, filterProg)
		hub.Register <- client
		go client.WriteLoop()
		go client.ReadLoop()
	}
}
