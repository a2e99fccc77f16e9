package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/quizden/triviaroom-go/internal/model"
)

// EventType identifies a coordinator event on the wire
type EventType string

// Client -> coordinator events
const (
	EventHostJoin     EventType = "hostJoin"
	EventJoinRoom     EventType = "joinRoom"
	EventStartGame    EventType = "startGame"
	EventSubmitAnswer EventType = "submitAnswer"
	EventSendMessage  EventType = "sendMessage"
)

// Coordinator -> client events
const (
	EventHostJoined        EventType = "hostJoined"
	EventPlayerJoined      EventType = "playerJoined"
	EventJoinFailed        EventType = "joinFailed"
	EventGameStarted       EventType = "gameStarted"
	EventUpdatePlayerScore EventType = "updatePlayerScore"
	EventReceivedMessage   EventType = "receivedMessage"
	EventAllAnswered       EventType = "allAnswered"
	EventGameEnd           EventType = "gameEnd"
	EventError             EventType = "error"
)

// EventNextQuestion flows in both directions: as a host command requesting
// the next round, and as the coordinator's authoritative question advance
const EventNextQuestion EventType = "nextQuestion"

// Envelope is the wire framing for every event: a tag plus a payload whose
// shape is fixed per tag
type Envelope struct {
	Event EventType       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope wraps a payload for sending
func NewEnvelope(event EventType, payload any) (*Envelope, error) {
	env := &Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", event, err)
		}
		env.Data = data
	}
	return env, nil
}

// Client -> coordinator payloads

// HostJoinPayload announces the host's (re)entry into its room
type HostJoinPayload struct {
	PlayerName model.PlayerName `json:"playerName"`
	RoomID     model.RoomID     `json:"roomId"`
}

// JoinRoomPayload announces a non-host player's (re)entry into a room
type JoinRoomPayload struct {
	RoomID     model.RoomID     `json:"roomId"`
	PlayerName model.PlayerName `json:"playerName"`
}

// StartGamePayload asks the coordinator to start the game (host only;
// the coordinator rejects non-host attempts)
type StartGamePayload struct {
	RoomID model.RoomID `json:"roomId"`
}

// SubmitAnswerPayload reports this client's answer for the current round.
// Points are computed client-side and trusted by the coordinator as-is.
type SubmitAnswerPayload struct {
	RoomID         model.RoomID     `json:"roomId"`
	PlayerName     model.PlayerName `json:"playerName"`
	Points         int              `json:"points"`
	ElapsedSeconds int              `json:"elapsedSeconds"`
}

// SendMessagePayload carries an outbound chat line. The sender sees it only
// once the coordinator rebroadcasts it.
type SendMessagePayload struct {
	RoomID     model.RoomID     `json:"roomId"`
	Text       string           `json:"text"`
	PlayerName model.PlayerName `json:"playerName"`
}

// AdvanceQuestionPayload asks the coordinator to move to the next round
type AdvanceQuestionPayload struct {
	RoomID     model.RoomID     `json:"roomId"`
	PlayerName model.PlayerName `json:"playerName"`
}

// Coordinator -> client payloads

// ScoreUpdatePayload carries a player's new authoritative score
type ScoreUpdatePayload struct {
	PlayerName model.PlayerName `json:"playerName"`
	Score      int              `json:"score"`
}

// MessagePayload carries a rebroadcast chat line
type MessagePayload struct {
	Text       string           `json:"text"`
	PlayerName model.PlayerName `json:"playerName"`
}

// NextQuestionPayload carries the authoritative 1-based question index
type NextQuestionPayload struct {
	Index int `json:"index"`
}

// JoinFailedPayload explains a rejected join attempt
type JoinFailedPayload struct {
	Reason string `json:"reason"`
}

// ErrorPayload is a coordinator-reported error; it never changes phase
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
