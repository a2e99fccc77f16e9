package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/quizden/triviaroom-go/internal/model"
	"github.com/quizden/triviaroom-go/internal/protocol"
)

// bindHandlers registers one handler per coordinator event. Registration is
// keyed, so calling this again (or reconnecting) replaces handlers instead
// of stacking them; every payload is validated at this boundary before it
// can touch the store. Handlers must stay idempotent: the coordinator
// guarantees ordering on one connection, but not exactly-once delivery.
func (e *Engine) bindHandlers() {
	e.transport.On(protocol.EventHostJoined, e.roomHandler(protocol.EventHostJoined))
	e.transport.On(protocol.EventPlayerJoined, e.roomHandler(protocol.EventPlayerJoined))

	e.transport.On(protocol.EventJoinFailed, func(data json.RawMessage) {
		p, err := protocol.DecodeJoinFailed(data)
		if err != nil {
			e.protocolError(err)
			return
		}
		e.post(func() {
			e.notify(LevelError, fmt.Sprintf("Could not join room: %s", p.Reason))
		})
	})

	e.transport.On(protocol.EventGameStarted, func(data json.RawMessage) {
		e.post(e.handleGameStarted)
	})

	e.transport.On(protocol.EventUpdatePlayerScore, func(data json.RawMessage) {
		p, err := protocol.DecodeScoreUpdate(data)
		if err != nil {
			e.protocolError(err)
			return
		}
		e.post(func() { e.store.UpdatePlayerScore(p.PlayerName, p.Score) })
	})

	e.transport.On(protocol.EventReceivedMessage, func(data json.RawMessage) {
		p, err := protocol.DecodeMessage(data)
		if err != nil {
			e.protocolError(err)
			return
		}
		e.post(func() { e.handleMessage(p) })
	})

	e.transport.On(protocol.EventAllAnswered, func(data json.RawMessage) {
		e.post(e.handleAllAnswered)
	})

	e.transport.On(protocol.EventNextQuestion, func(data json.RawMessage) {
		p, err := protocol.DecodeNextQuestion(data)
		if err != nil {
			e.protocolError(err)
			return
		}
		e.post(func() { e.handleNextQuestion(p.Index) })
	})

	e.transport.On(protocol.EventGameEnd, func(data json.RawMessage) {
		e.post(e.handleGameEnd)
	})

	e.transport.On(protocol.EventError, func(data json.RawMessage) {
		p, err := protocol.DecodeServerError(data)
		if err != nil {
			e.protocolError(err)
			return
		}
		// Surfaced to the user; the phase is preserved
		e.post(func() {
			e.notify(LevelError, fmt.Sprintf("Coordinator error: %s", p.Message))
		})
	})
}

// roomHandler handles the full-room payloads of hostJoined and
// playerJoined. The same events acknowledge this client's own join and
// announce other players, so receiving our own echo is routine.
func (e *Engine) roomHandler(event protocol.EventType) func(json.RawMessage) {
	return func(data json.RawMessage) {
		room, err := protocol.DecodeRoom(event, data)
		if err != nil {
			e.protocolError(err)
			return
		}
		e.post(func() { e.handleRoomUpdate(room) })
	}
}

func (e *Engine) handleRoomUpdate(room *model.Room) {
	e.store.ReplaceRoom(room)
	e.lastQuestion = room.CurrentQuestion
	e.applyPhase(false)
}

func (e *Engine) handleMessage(p *protocol.MessagePayload) {
	e.store.AppendMessage(model.ChatMessage{Author: p.PlayerName, Text: p.Text})
	if p.PlayerName == e.cfg.Session.PlayerName {
		// Echo of our own message: the pending-send guard clears only
		// when the coordinator confirms the rebroadcast
		e.chatPending = false
	}
}

func (e *Engine) handleGameStarted() {
	e.store.MarkGameStarted()
	e.applyPhase(false)
}

func (e *Engine) handleAllAnswered() {
	if e.store.Phase() == model.PhaseLobby {
		e.logger.Warn("allAnswered before game start; ignoring")
		return
	}
	if e.inputs.AllAnswered {
		// Duplicate delivery must not restart the results countdown
		return
	}
	e.setInputs(model.PhaseInputs{
		HasAnswered: e.inputs.HasAnswered,
		AllAnswered: true,
	})
	e.applyPhase(false)
}

func (e *Engine) handleNextQuestion(index int) {
	if index <= e.lastQuestion {
		e.logger.Debug("duplicate or stale question advance",
			slog.Int("index", index),
			slog.Int("applied", e.lastQuestion))
		return
	}
	e.lastQuestion = index
	e.store.AdvanceQuestion(index)

	// New round: per-round flags reset before the phase is rederived
	e.selectedAnswer = ""
	e.setInputs(model.PhaseInputs{})

	e.applyPhase(true)
}

func (e *Engine) handleGameEnd() {
	e.setInputs(model.PhaseInputs{
		HasAnswered: e.inputs.HasAnswered,
		AllAnswered: e.inputs.AllAnswered,
		GameEnded:   true,
	})
	e.applyPhase(false)
	e.notify(LevelInfo, "Game over! Final scores are in.")
}

func (e *Engine) protocolError(err error) {
	e.logger.Warn("protocol error", slog.String("error", err.Error()))
	e.post(func() {
		e.notify(LevelWarning, err.Error())
	})
}
