package engine

import (
	"strings"

	"github.com/quizden/triviaroom-go/internal/model"
	"github.com/quizden/triviaroom-go/internal/protocol"
)

// User intents. Each is safe to call from any goroutine; the work is queued
// onto the engine's task loop. Local validation failures are suppressed
// before transmission and surfaced as notifications, never sent.

// SelectAnswer records the option the player is hovering on. It does not
// submit anything.
func (e *Engine) SelectAnswer(option string) {
	e.post(func() {
		if e.store.Phase() != model.PhaseAwaitingAnswer {
			e.notify(LevelWarning, model.ErrNotInQuestion.Error())
			return
		}
		q := e.store.Snapshot().ActiveQuestion()
		if q == nil || !q.HasOption(option) {
			e.notify(LevelWarning, model.ErrInvalidAnswer.Error())
			return
		}
		e.selectedAnswer = option
	})
}

// SelectAnswerByIndex selects the option at a 0-based display index
func (e *Engine) SelectAnswerByIndex(i int) {
	e.post(func() {
		if e.store.Phase() != model.PhaseAwaitingAnswer {
			e.notify(LevelWarning, model.ErrNotInQuestion.Error())
			return
		}
		q := e.store.Snapshot().ActiveQuestion()
		if q == nil || i < 0 || i >= len(q.Options) {
			e.notify(LevelWarning, model.ErrInvalidAnswer.Error())
			return
		}
		e.selectedAnswer = q.Options[i]
	})
}

// SubmitAnswer scores the selected option against the current question and
// reports it to the coordinator. Points are computed client-side from the
// time remaining; the coordinator trusts the value as-is.
func (e *Engine) SubmitAnswer() {
	e.post(func() {
		switch e.store.Phase() {
		case model.PhaseAwaitingAnswer:
		case model.PhaseAnswered:
			e.notify(LevelWarning, model.ErrAlreadyAnswered.Error())
			return
		default:
			e.notify(LevelWarning, model.ErrNotInQuestion.Error())
			return
		}
		if e.selectedAnswer == "" {
			e.notify(LevelWarning, model.ErrNoAnswerSelected.Error())
			return
		}

		room := e.store.Snapshot()
		q := room.ActiveQuestion()
		if q == nil {
			e.notify(LevelWarning, model.ErrNotInQuestion.Error())
			return
		}

		limit := room.TimeLimitSeconds
		if limit <= 0 {
			limit = e.cfg.DefaultTimeLimitSeconds
		}
		points := ComputePoints(q.IsCorrect(e.selectedAnswer), e.timeLeft)

		if err := e.transport.Emit(protocol.EventSubmitAnswer, protocol.SubmitAnswerPayload{
			RoomID:         room.ID,
			PlayerName:     e.cfg.Session.PlayerName,
			Points:         points,
			ElapsedSeconds: limit - e.timeLeft,
		}); err != nil {
			// The coordinator saw nothing; the question stays open
			return
		}

		e.setInputs(model.PhaseInputs{
			HasAnswered: true,
			AllAnswered: e.inputs.AllAnswered,
		})
		e.applyPhase(false)
	})
}

// SendChat sends a chat line. Empty and whitespace-only drafts never
// produce an outbound command. There is no local echo: the message shows up
// when the coordinator rebroadcasts it, so a pending-send guard stops rapid
// double-submits from emitting twice.
func (e *Engine) SendChat(text string) {
	trimmed := strings.TrimSpace(text)
	e.post(func() {
		if trimmed == "" {
			e.logger.Debug("suppressing empty chat message")
			return
		}
		if e.chatPending {
			e.notify(LevelWarning, model.ErrMessagePending.Error())
			return
		}
		room := e.store.Snapshot()
		if room.ID == "" {
			e.notify(LevelWarning, model.ErrRoomNotFound.Error())
			return
		}
		e.chatPending = true
		if err := e.transport.Emit(protocol.EventSendMessage, protocol.SendMessagePayload{
			RoomID:     room.ID,
			Text:       trimmed,
			PlayerName: e.cfg.Session.PlayerName,
		}); err != nil {
			// Nothing went out, so no echo will clear the guard
			e.chatPending = false
		}
	})
}

// StartGame asks the coordinator to start. The control is only shown to the
// host; the coordinator is what actually rejects non-host attempts.
func (e *Engine) StartGame() {
	e.post(func() {
		room := e.store.Snapshot()
		if room.Started {
			e.notify(LevelWarning, model.ErrAlreadyStarted.Error())
			return
		}
		if room.ID == "" {
			e.notify(LevelWarning, model.ErrRoomNotFound.Error())
			return
		}
		e.transport.Emit(protocol.EventStartGame, protocol.StartGamePayload{RoomID: room.ID})
	})
}

// AdvanceQuestion asks the coordinator for the next round while the results
// screen is up. The local countdown has no say in the matter.
func (e *Engine) AdvanceQuestion() {
	e.post(func() {
		if e.store.Phase() != model.PhaseRoundResults {
			e.notify(LevelWarning, model.ErrGameNotStarted.Error())
			return
		}
		room := e.store.Snapshot()
		e.transport.Emit(protocol.EventNextQuestion, protocol.AdvanceQuestionPayload{
			RoomID:     room.ID,
			PlayerName: e.cfg.Session.PlayerName,
		})
	})
}

// PlayAgain resets the local session for a rematch: scores zeroed, flags
// and timers cleared, back to the lobby
func (e *Engine) PlayAgain() {
	e.post(func() {
		e.store.ResetForNewGame()
		e.selectedAnswer = ""
		e.chatPending = false
		e.timeLeft = 0
		e.resultsLeft = 0
		e.lastQuestion = 1
		e.setInputs(model.PhaseInputs{})
		e.applyPhase(false)
	})
}
