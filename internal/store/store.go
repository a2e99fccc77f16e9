package store

import (
	"log/slog"
	"sync"

	"github.com/quizden/triviaroom-go/internal/model"
)

// Store is the single source of truth for room state. Every mutation is
// total and performs no I/O; the synchronization engine is the only writer.
// The lock exists so that snapshots are atomic from the renderer's point of
// view, not because there are concurrent writers.
type Store struct {
	mu     sync.RWMutex
	logger *slog.Logger

	room   model.Room
	inputs model.PhaseInputs
}

// New creates a store holding an empty, unjoined room
func New(logger *slog.Logger) *Store {
	return &Store{
		logger: logger.With(slog.String("component", "store")),
		room:   model.Room{CurrentQuestion: 1},
	}
}

// ReplaceRoom swaps in a full room payload from a join acknowledgment or
// roster update. Applying the same payload twice yields the same state.
func (s *Store) ReplaceRoom(room *model.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = *room.Clone()
	s.logger.Debug("room replaced",
		slog.String("room_id", string(room.ID)),
		slog.Int("players", len(room.Players)))
}

// AppendMessage adds a chat line to the append-only message log
func (s *Store) AppendMessage(msg model.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room.Messages = append(s.room.Messages, msg)
}

// UpdatePlayerScore replaces a player's score with the authoritative value.
// An unknown player name is a no-op: rosters can race with score updates
// during reconnection, so this is a warning, never a failure.
func (s *Store) UpdatePlayerScore(name model.PlayerName, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.room.GetPlayer(name)
	if p == nil {
		s.logger.Warn("score update for unknown player",
			slog.String("player", string(name)),
			slog.Int("score", score))
		return
	}
	p.Score = score
	p.HasAnswered = true
}

// AdvanceQuestion moves the 1-based question pointer to the authoritative
// index. Stale indices (from reconnect-induced duplicate delivery) are
// ignored, so the pointer is monotonically non-decreasing. Per-round player
// flags reset on a real transition.
func (s *Store) AdvanceQuestion(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < s.room.CurrentQuestion {
		s.logger.Warn("ignoring stale question index",
			slog.Int("index", index),
			slog.Int("current", s.room.CurrentQuestion))
		return
	}
	if index == s.room.CurrentQuestion {
		return
	}
	if index > len(s.room.Questions)+1 {
		s.logger.Warn("clamping question index past game end",
			slog.Int("index", index),
			slog.Int("questions", len(s.room.Questions)))
		index = len(s.room.Questions) + 1
	}
	s.room.CurrentQuestion = index
	for i := range s.room.Players {
		s.room.Players[i].HasAnswered = false
	}
}

// MarkGameStarted flips the monotonic started flag. The first transition
// appends the coordinator's system chat line; repeats are no-ops.
func (s *Store) MarkGameStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room.Started {
		return
	}
	s.room.Started = true
	s.room.Messages = append(s.room.Messages, model.ChatMessage{
		Author: model.SystemAuthor,
		Text:   "Game has started!",
	})
}

// SetPhaseInputs records the round-local flags that feed phase derivation
func (s *Store) SetPhaseInputs(in model.PhaseInputs) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = in
}

// Phase derives the current session phase from room state and phase inputs
func (s *Store) Phase() model.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.DerivePhase(s.room.Started, s.room.CurrentQuestion, len(s.room.Questions), s.inputs)
}

// ResetForNewGame rewinds the room for a "play again": scores zeroed,
// question pointer back to the first round, started flag cleared. Roster,
// questions and chat history survive.
func (s *Store) ResetForNewGame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room.Started = false
	s.room.CurrentQuestion = 1
	for i := range s.room.Players {
		s.room.Players[i].Score = 0
		s.room.Players[i].HasAnswered = false
	}
	s.inputs = model.PhaseInputs{}
}

// Snapshot returns a deep copy of the room; callers can hold it across
// renders without ever observing a partially-applied mutation
func (s *Store) Snapshot() *model.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room.Clone()
}
