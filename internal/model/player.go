package model

// PlayerName is a player's display name, unique within a room
type PlayerName string

// Player is a member of a room's roster
type Player struct {
	// ID is assigned by the coordinator and stable for the session.
	// It may be empty in payloads from older coordinators.
	ID string `json:"id,omitempty"`

	Name  PlayerName `json:"name"`
	Score int        `json:"score"`

	// HasAnswered is reset at every question transition
	HasAnswered bool `json:"hasAnswered"`
}
