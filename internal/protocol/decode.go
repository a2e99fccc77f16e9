package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/quizden/triviaroom-go/internal/model"
)

// DecodeError reports a malformed or unexpected event payload. It is logged
// and surfaced to the user; the current phase is preserved.
type DecodeError struct {
	Event  EventType
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid %s payload: %s", e.Event, e.Reason)
}

func decodeErr(event EventType, format string, args ...any) error {
	return &DecodeError{Event: event, Reason: fmt.Sprintf(format, args...)}
}

// DecodeRoom validates and decodes a full room payload (hostJoined and
// playerJoined acknowledgments and roster updates)
func DecodeRoom(event EventType, data json.RawMessage) (*model.Room, error) {
	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, decodeErr(event, "malformed JSON: %v", err)
	}
	if room.ID == "" {
		return nil, decodeErr(event, "missing room id")
	}
	if room.CurrentQuestion < 1 || room.CurrentQuestion > len(room.Questions)+1 {
		return nil, decodeErr(event, "question index %d out of range for %d questions",
			room.CurrentQuestion, len(room.Questions))
	}
	for i := range room.Questions {
		q := &room.Questions[i]
		if len(q.Options) < 2 {
			return nil, decodeErr(event, "question %d has %d answer options", i+1, len(q.Options))
		}
		if !q.HasOption(q.CorrectAnswer) {
			return nil, decodeErr(event, "question %d correct answer is not among its options", i+1)
		}
	}
	seen := make(map[model.PlayerName]bool, len(room.Players))
	for _, p := range room.Players {
		if p.Name == "" {
			return nil, decodeErr(event, "player with empty name")
		}
		if seen[p.Name] {
			return nil, decodeErr(event, "duplicate player name %q", p.Name)
		}
		seen[p.Name] = true
	}
	return &room, nil
}

// DecodeScoreUpdate validates and decodes an updatePlayerScore payload
func DecodeScoreUpdate(data json.RawMessage) (*ScoreUpdatePayload, error) {
	var p ScoreUpdatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, decodeErr(EventUpdatePlayerScore, "malformed JSON: %v", err)
	}
	if p.PlayerName == "" {
		return nil, decodeErr(EventUpdatePlayerScore, "missing player name")
	}
	if p.Score < 0 {
		return nil, decodeErr(EventUpdatePlayerScore, "negative score %d", p.Score)
	}
	return &p, nil
}

// DecodeMessage validates and decodes a receivedMessage payload
func DecodeMessage(data json.RawMessage) (*MessagePayload, error) {
	var p MessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, decodeErr(EventReceivedMessage, "malformed JSON: %v", err)
	}
	if p.PlayerName == "" {
		return nil, decodeErr(EventReceivedMessage, "missing author")
	}
	return &p, nil
}

// DecodeNextQuestion validates and decodes the authoritative question advance
func DecodeNextQuestion(data json.RawMessage) (*NextQuestionPayload, error) {
	var p NextQuestionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, decodeErr(EventNextQuestion, "malformed JSON: %v", err)
	}
	if p.Index < 1 {
		return nil, decodeErr(EventNextQuestion, "index %d is not 1-based", p.Index)
	}
	return &p, nil
}

// DecodeJoinFailed decodes a rejected join attempt
func DecodeJoinFailed(data json.RawMessage) (*JoinFailedPayload, error) {
	var p JoinFailedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, decodeErr(EventJoinFailed, "malformed JSON: %v", err)
	}
	return &p, nil
}

// DecodeServerError decodes a coordinator-reported error
func DecodeServerError(data json.RawMessage) (*ErrorPayload, error) {
	var p ErrorPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, decodeErr(EventError, "malformed JSON: %v", err)
	}
	if p.Message == "" {
		return nil, decodeErr(EventError, "missing message")
	}
	return &p, nil
}
