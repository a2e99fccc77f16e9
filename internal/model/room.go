package model

// RoomID is the opaque room code assigned by the coordinator
type RoomID string

// Room is the authoritative shared session state. It is created empty on
// client boot, populated wholesale by the room join acknowledgment, then
// mutated incrementally by coordinator events.
type Room struct {
	ID      RoomID     `json:"gameId"`
	Host    PlayerName `json:"host"`
	Players []Player   `json:"players"`

	// Questions is fixed once the room is created
	Questions []Question `json:"questions"`

	// CurrentQuestion is a 1-based index into Questions; the value
	// len(Questions)+1 signals that the game has ended
	CurrentQuestion int `json:"currentQuestion"`

	Started  bool          `json:"gameStarted"`
	Messages []ChatMessage `json:"messages"`

	// Configuration echoed from room creation
	Category         int        `json:"category"`
	Difficulty       Difficulty `json:"difficulty"`
	TimeLimitSeconds int        `json:"timeLimit"`
}

// GetPlayer returns the player with the given name, or nil if not in the roster
func (r *Room) GetPlayer(name PlayerName) *Player {
	for i := range r.Players {
		if r.Players[i].Name == name {
			return &r.Players[i]
		}
	}
	return nil
}

// ActiveQuestion returns the question the room is currently on, or nil when
// the index is out of range (lobby with no questions, or past the last round)
func (r *Room) ActiveQuestion() *Question {
	if r.CurrentQuestion < 1 || r.CurrentQuestion > len(r.Questions) {
		return nil
	}
	return &r.Questions[r.CurrentQuestion-1]
}

// Ended reports whether the question pointer has moved past the last question
func (r *Room) Ended() bool {
	return len(r.Questions) > 0 && r.CurrentQuestion > len(r.Questions)
}

// Clone returns a deep copy of the room, safe to hand to a renderer while
// the original keeps being mutated
func (r *Room) Clone() *Room {
	clone := *r
	clone.Players = make([]Player, len(r.Players))
	copy(clone.Players, r.Players)
	clone.Questions = make([]Question, len(r.Questions))
	copy(clone.Questions, r.Questions)
	for i := range clone.Questions {
		opts := make([]string, len(r.Questions[i].Options))
		copy(opts, r.Questions[i].Options)
		clone.Questions[i].Options = opts
	}
	clone.Messages = make([]ChatMessage, len(r.Messages))
	copy(clone.Messages, r.Messages)
	return &clone
}
