package types

import "encoding/json"

const (
	// client -> server
	MessageTypeJoin   = "join"
	MessageTypeAnchor = "anchor"
	MessageTypeAdvice = "advice"

	// server -> client
	MessageTypeRooms       = "rooms"
	MessageTypeRoom        = "room"
	MessageTypeGone        = "gone"
	MessageTypeJoined      = "joined"
	MessageTypeAdviceReply = "advice_reply"
	MessageTypeError       = "error"
)

// JSON-serialized WebsocketMessage is what is actually sent via the Websocket connection
type WebsocketMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func NewWebsocketMessage(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(WebsocketMessage{Event: event, Data: raw})
}

// The different types of messages transferred from the client to here.

// JoinMessage seats a new participant in a room.
type JoinMessage struct {
	RoomId    string `json:"room_id" mapstructure:"room_id"`
	TeamIndex int    `json:"team_index" mapstructure:"team_index"`
	Name      string `json:"name" mapstructure:"name"`
}

// AnchorMessage re-anchors an existing session to a room + participant, so the
// client receives the single-room view instead of the full collection.
type AnchorMessage struct {
	RoomId        string `json:"room_id" mapstructure:"room_id"`
	ParticipantId string `json:"participant_id" mapstructure:"participant_id"`
}

// AdviceMessage requests a one-shot advisory text for the given prompt.
type AdviceMessage struct {
	Prompt string `json:"prompt" mapstructure:"prompt"`
}

// Outgoing message payloads.

type RoomsMessage struct {
	Rooms []*Room `json:"rooms"`
}

type RoomMessage struct {
	Room *Room        `json:"room"`
	Me   *Participant `json:"me,omitempty"`
}

// GoneMessage tells an anchored client that its room (or its seat in it) no
// longer exists, which terminates that session.
type GoneMessage struct {
	RoomId string `json:"room_id"`
}

type JoinedMessage struct {
	RoomId        string `json:"room_id"`
	ParticipantId string `json:"participant_id"`
}

type AdviceReplyMessage struct {
	Text string `json:"text"`
}

type ErrorMessage struct {
	Error string `json:"error"`
}
