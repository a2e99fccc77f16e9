package engine

import (
	"context"
	"log/slog"

	"github.com/quizden/triviaroom-go/internal/connection"
	"github.com/quizden/triviaroom-go/internal/dependencies/clock"
	"github.com/quizden/triviaroom-go/internal/model"
	"github.com/quizden/triviaroom-go/internal/protocol"
	"github.com/quizden/triviaroom-go/internal/store"
	"github.com/quizden/triviaroom-go/internal/timer"
)

// Transport is the engine's view of the coordinator connection
type Transport interface {
	Connect(ctx context.Context) error
	Close() error
	Connected() bool
	On(event protocol.EventType, h connection.Handler)
	Off(event protocol.EventType)
	// Emit reports a send that never reached the wire; transports also
	// surface the same error through OnError
	Emit(event protocol.EventType, payload any) error
	OnReconnect(func())
	OnError(func(error))
}

// NotificationLevel classifies a user-facing notification
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

// Notification is a user-facing message surfaced by the engine. Network and
// protocol errors become notifications; they never escape as panics.
type Notification struct {
	Level   NotificationLevel
	Message string
}

// Snapshot is everything the presentation adapter needs to render one frame
type Snapshot struct {
	Phase model.Phase
	Room  *model.Room

	// TimeLeft is the question countdown; display only
	TimeLeft int

	// ResultsCountdown is the post-round countdown; display only
	ResultsCountdown int

	SelectedAnswer string
	HasAnswered    bool

	PlayerName model.PlayerName
	IsHost     bool
}

// Config holds engine settings
type Config struct {
	// Session is the persisted identity used to join the room on start
	Session model.Session

	// ResultsCountdownSeconds is the fixed length of the post-round
	// countdown shown between questions
	ResultsCountdownSeconds int

	// DefaultTimeLimitSeconds is used when a room payload carries no
	// per-question time limit
	DefaultTimeLimitSeconds int
}

// DefaultConfig returns engine defaults for the given session identity
func DefaultConfig(session model.Session) Config {
	return Config{
		Session:                 session,
		ResultsCountdownSeconds: 10,
		DefaultTimeLimitSeconds: 30,
	}
}

// Engine subscribes to coordinator events, applies them to the session
// store, derives the local phase, manages the two countdowns, and emits
// coordinator-bound commands. All state transitions run on a single
// goroutine: coordinator events, timer ticks and user intents are queued as
// tasks and executed one at a time, so the store never has a concurrent
// writer and no partially-applied transition is ever observable.
type Engine struct {
	cfg       Config
	transport Transport
	store     *store.Store
	logger    *slog.Logger

	questionTimer *timer.Countdown
	resultsTimer  *timer.Countdown

	tasks         chan func()
	updates       chan Snapshot
	notifications chan Notification

	// Task-loop-owned state; touched only from Run's goroutine
	selectedAnswer string
	inputs         model.PhaseInputs
	timeLeft       int
	resultsLeft    int
	chatPending    bool
	lastQuestion   int
	prevPhase      model.Phase

	// timerGen stamps timer callbacks; ticks from a superseded countdown
	// carry an old generation and are dropped
	timerGen int
}

// New creates an engine for the given persisted session. A session without
// a room identifier and player name cannot join anything; callers must
// redirect to the entry flow on ErrSessionMissing instead of letting the
// engine emit malformed join commands.
func New(cfg Config, transport Transport, st *store.Store, clk clock.Clock, logger *slog.Logger) (*Engine, error) {
	if !cfg.Session.Valid() {
		return nil, model.ErrSessionMissing
	}
	if cfg.ResultsCountdownSeconds <= 0 {
		cfg.ResultsCountdownSeconds = 10
	}
	if cfg.DefaultTimeLimitSeconds <= 0 {
		cfg.DefaultTimeLimitSeconds = 30
	}
	logger = logger.With(slog.String("component", "engine"))
	return &Engine{
		cfg:           cfg,
		transport:     transport,
		store:         st,
		logger:        logger,
		questionTimer: timer.New(clk, logger, "question"),
		resultsTimer:  timer.New(clk, logger, "round_results"),
		tasks:         make(chan func(), 256),
		updates:       make(chan Snapshot, 256),
		notifications: make(chan Notification, 64),
		prevPhase:     model.PhaseLobby,
	}, nil
}

// Updates delivers a snapshot after every applied transition. When the
// consumer falls behind, the oldest snapshot is dropped first; the newest
// state always gets through.
func (e *Engine) Updates() <-chan Snapshot {
	return e.updates
}

// Notifications delivers user-facing messages (errors, join failures,
// informational countdowns expiring)
func (e *Engine) Notifications() <-chan Notification {
	return e.notifications
}

// Run connects to the coordinator, joins the room from the persisted
// session, and processes tasks until the context is cancelled. It is the
// only goroutine that mutates engine state or writes to the store.
func (e *Engine) Run(ctx context.Context) error {
	e.bindHandlers()
	e.transport.OnReconnect(func() {
		e.post(func() {
			e.logger.Info("rejoining room after reconnect")
			// A chat send in flight when the connection died will never
			// be echoed on the new connection
			e.chatPending = false
			e.join()
		})
	})
	e.transport.OnError(func(err error) {
		e.notify(LevelError, err.Error())
	})

	if err := e.transport.Connect(ctx); err != nil {
		return err
	}
	e.post(e.join)

	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return ctx.Err()
		case task := <-e.tasks:
			task()
			e.publish()
		}
	}
}

func (e *Engine) shutdown() {
	e.questionTimer.Cancel()
	e.resultsTimer.Cancel()
	if err := e.transport.Close(); err != nil {
		e.logger.Warn("error closing connection", slog.String("error", err.Error()))
	}
}

// post queues a task for the run loop
func (e *Engine) post(task func()) {
	e.tasks <- task
}

func (e *Engine) join() {
	if e.cfg.Session.IsHost {
		e.transport.Emit(protocol.EventHostJoin, protocol.HostJoinPayload{
			PlayerName: e.cfg.Session.PlayerName,
			RoomID:     e.cfg.Session.RoomID,
		})
		return
	}
	e.transport.Emit(protocol.EventJoinRoom, protocol.JoinRoomPayload{
		RoomID:     e.cfg.Session.RoomID,
		PlayerName: e.cfg.Session.PlayerName,
	})
}

// applyPhase reconciles timers with the freshly derived phase. Timers from
// the prior phase are cancelled synchronously before any new one starts, so
// a stale countdown can never fire into a new question's state. forceTimers
// restarts the question timer even when the phase name did not change
// (question N to question N+1 is AwaitingAnswer to AwaitingAnswer).
func (e *Engine) applyPhase(forceTimers bool) {
	phase := e.store.Phase()
	if phase == e.prevPhase && !forceTimers {
		return
	}

	switch phase {
	case model.PhaseAwaitingAnswer:
		e.resultsTimer.Cancel()
		e.startQuestionTimer()
	case model.PhaseAnswered:
		// Question countdown keeps displaying until everyone answered
	case model.PhaseRoundResults:
		e.questionTimer.Cancel()
		e.startResultsTimer()
	case model.PhaseLobby, model.PhaseGameOver:
		e.questionTimer.Cancel()
		e.resultsTimer.Cancel()
		e.timerGen++
	}

	if phase != e.prevPhase {
		e.logger.Info("phase transition",
			slog.String("from", string(e.prevPhase)),
			slog.String("to", string(phase)))
	}
	e.prevPhase = phase
}

func (e *Engine) startQuestionTimer() {
	limit := e.store.Snapshot().TimeLimitSeconds
	if limit <= 0 {
		limit = e.cfg.DefaultTimeLimitSeconds
	}
	e.timeLeft = limit
	e.timerGen++
	gen := e.timerGen
	e.questionTimer.Start(limit,
		func(remaining int) {
			e.post(func() {
				if gen != e.timerGen {
					return
				}
				e.timeLeft = remaining
			})
		},
		func() {
			// Informational only: the coordinator decides when the
			// round is over, not this countdown
			e.post(func() {
				if gen != e.timerGen {
					return
				}
				e.timeLeft = 0
				e.notify(LevelInfo, "Time's up! Waiting for the round to close.")
			})
		})
}

func (e *Engine) startResultsTimer() {
	e.resultsLeft = e.cfg.ResultsCountdownSeconds
	e.timerGen++
	gen := e.timerGen
	e.resultsTimer.Start(e.cfg.ResultsCountdownSeconds,
		func(remaining int) {
			e.post(func() {
				if gen != e.timerGen {
					return
				}
				e.resultsLeft = remaining
			})
		},
		func() {
			// Display only; the coordinator triggers the next question
			e.post(func() {
				if gen != e.timerGen {
					return
				}
				e.resultsLeft = 0
			})
		})
}

func (e *Engine) setInputs(in model.PhaseInputs) {
	e.inputs = in
	e.store.SetPhaseInputs(in)
}

func (e *Engine) notify(level NotificationLevel, message string) {
	n := Notification{Level: level, Message: message}
	select {
	case e.notifications <- n:
	default:
		e.logger.Warn("notification dropped - buffer full", slog.String("message", message))
	}
}

// publish emits a snapshot, dropping the oldest buffered one when full
func (e *Engine) publish() {
	snap := Snapshot{
		Phase:            e.store.Phase(),
		Room:             e.store.Snapshot(),
		TimeLeft:         e.timeLeft,
		ResultsCountdown: e.resultsLeft,
		SelectedAnswer:   e.selectedAnswer,
		HasAnswered:      e.inputs.HasAnswered,
		PlayerName:       e.cfg.Session.PlayerName,
		IsHost:           e.cfg.Session.IsHost,
	}
	for {
		select {
		case e.updates <- snap:
			return
		default:
			select {
			case <-e.updates:
			default:
			}
		}
	}
}
