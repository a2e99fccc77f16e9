package model

// SystemAuthor is the author name used for coordinator-generated chat lines
const SystemAuthor PlayerName = "System"

// ChatMessage is a single chat line. The message log is append-only and
// ordered by arrival.
type ChatMessage struct {
	Author PlayerName `json:"user"`
	Text   string     `json:"message"`
}
