package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionMissing = errors.New("no persisted session identity")

	// Room errors
	ErrRoomNotFound     = errors.New("room not found")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrSnapshotNotFound = errors.New("room snapshot not found")

	// Connection errors
	ErrNotConnected     = errors.New("connection is not open")
	ErrRetriesExhausted = errors.New("reconnect retries exhausted")

	// Local intent validation errors; these are suppressed client-side
	// and never reach the coordinator
	ErrEmptyMessage     = errors.New("message is empty")
	ErrMessagePending   = errors.New("previous message is still sending")
	ErrNoAnswerSelected = errors.New("no answer selected")
	ErrInvalidAnswer    = errors.New("answer is not one of the question's options")
	ErrAlreadyAnswered  = errors.New("answer already submitted for this question")
	ErrNotInQuestion    = errors.New("no question is awaiting an answer")
	ErrAlreadyStarted   = errors.New("game already started")
	ErrGameNotStarted   = errors.New("game has not started")
)
