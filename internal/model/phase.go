package model

// Phase is the derived local state of a client within a round-based session.
// It is always computed from room state and round flags, never stored on its
// own, so it cannot drift out of sync with the room.
type Phase string

const (
	PhaseLobby          Phase = "lobby"
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	PhaseAnswered       Phase = "answered"
	PhaseRoundResults   Phase = "round_results"
	PhaseGameOver       Phase = "game_over"
)

// PhaseInputs are the round-local flags that, together with the room,
// determine the phase
type PhaseInputs struct {
	// HasAnswered is true once this client submitted an answer for the
	// current question
	HasAnswered bool

	// AllAnswered is set by the coordinator's allAnswered event
	AllAnswered bool

	// GameEnded is set by the coordinator's gameEnd event
	GameEnded bool
}

// DerivePhase computes the session phase. questionIndex is 1-based;
// questionIndex > questionCount also signals game over.
func DerivePhase(started bool, questionIndex, questionCount int, in PhaseInputs) Phase {
	switch {
	case in.GameEnded:
		return PhaseGameOver
	case started && questionCount > 0 && questionIndex > questionCount:
		return PhaseGameOver
	case !started:
		return PhaseLobby
	case in.AllAnswered:
		return PhaseRoundResults
	case in.HasAnswered:
		return PhaseAnswered
	default:
		return PhaseAwaitingAnswer
	}
}
