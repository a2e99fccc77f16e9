package model

import "time"

// Session is the persisted client identity used to silently rejoin a room
// after a restart. It is the only state that outlives the process.
type Session struct {
	RoomID     RoomID     `json:"roomId"`
	PlayerName PlayerName `json:"playerName"`
	IsHost     bool       `json:"isHost"`
	SavedAt    time.Time  `json:"savedAt"`
}

// Valid reports whether the session carries enough identity to join a room.
// An invalid session must redirect to the entry flow rather than produce
// malformed join commands.
func (s *Session) Valid() bool {
	return s != nil && s.RoomID != "" && s.PlayerName != ""
}
