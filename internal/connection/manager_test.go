package connection

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quizden/triviaroom-go/internal/model"
	"github.com/quizden/triviaroom-go/internal/protocol"
	"github.com/quizden/triviaroom-go/internal/testutil"
)

type ManagerSuite struct {
	suite.Suite
	coordinator *testutil.Coordinator
	manager     *Manager
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.coordinator = testutil.NewCoordinator()

	cfg := DefaultConfig(s.coordinator.WSURL())
	cfg.MaxRetries = 3
	cfg.RetryBackoff = 10 * time.Millisecond
	s.manager = New(cfg, testutil.NopLogger())
}

func (s *ManagerSuite) TearDownTest() {
	_ = s.manager.Close()
	s.coordinator.Close()
}

func (s *ManagerSuite) connect() {
	s.Require().NoError(s.manager.Connect(context.Background()))
	s.Require().Eventually(func() bool {
		return s.coordinator.ConnectionCount() == 1
	}, time.Second, time.Millisecond)
}

func (s *ManagerSuite) waitEvent() protocol.Envelope {
	select {
	case env := <-s.coordinator.Events():
		return env
	case <-time.After(time.Second):
		s.FailNow("no event arrived at the coordinator")
		return protocol.Envelope{}
	}
}

func (s *ManagerSuite) TestConnectAndEmit() {
	s.connect()
	s.True(s.manager.Connected())

	s.NoError(s.manager.Emit(protocol.EventStartGame, protocol.StartGamePayload{RoomID: "ROOM01"}))

	env := s.waitEvent()
	s.Equal(protocol.EventStartGame, env.Event)

	var payload protocol.StartGamePayload
	s.Require().NoError(json.Unmarshal(env.Data, &payload))
	s.Equal(model.RoomID("ROOM01"), payload.RoomID)
}

func (s *ManagerSuite) TestEmitWhileDisconnectedSurfacesError() {
	errs := make(chan error, 1)
	s.manager.OnError(func(err error) { errs <- err })

	err := s.manager.Emit(protocol.EventStartGame, protocol.StartGamePayload{RoomID: "ROOM01"})

	// The failure is both returned and surfaced through the hook
	s.ErrorIs(err, model.ErrNotConnected)
	select {
	case err := <-errs:
		s.True(errors.Is(err, model.ErrNotConnected))
	case <-time.After(time.Second):
		s.FailNow("error was never surfaced")
	}
}

func (s *ManagerSuite) TestDispatchToHandler() {
	received := make(chan json.RawMessage, 1)
	s.manager.On(protocol.EventGameStarted, func(data json.RawMessage) {
		received <- data
	})
	s.connect()

	s.Require().NoError(s.coordinator.Push(protocol.EventGameStarted, nil))

	select {
	case <-received:
	case <-time.After(time.Second):
		s.FailNow("handler never fired")
	}
}

func (s *ManagerSuite) TestLatestRegistrationWins() {
	first := make(chan struct{}, 4)
	second := make(chan struct{}, 4)
	s.manager.On(protocol.EventGameStarted, func(json.RawMessage) { first <- struct{}{} })
	s.manager.On(protocol.EventGameStarted, func(json.RawMessage) { second <- struct{}{} })
	s.connect()

	s.Require().NoError(s.coordinator.Push(protocol.EventGameStarted, nil))

	select {
	case <-second:
	case <-time.After(time.Second):
		s.FailNow("replacement handler never fired")
	}
	select {
	case <-first:
		s.FailNow("detached handler fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *ManagerSuite) TestOffDetachesHandler() {
	received := make(chan struct{}, 1)
	s.manager.On(protocol.EventGameStarted, func(json.RawMessage) { received <- struct{}{} })
	s.manager.Off(protocol.EventGameStarted)
	s.connect()

	s.Require().NoError(s.coordinator.Push(protocol.EventGameStarted, nil))

	select {
	case <-received:
		s.FailNow("detached handler fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *ManagerSuite) TestUnknownEventIsDiscarded() {
	s.connect()
	s.Require().NoError(s.coordinator.Push("someFutureEvent", nil))

	// Still functional afterwards
	s.manager.Emit(protocol.EventStartGame, protocol.StartGamePayload{RoomID: "R"})
	s.Equal(protocol.EventStartGame, s.waitEvent().Event)
}

func (s *ManagerSuite) TestReconnectAfterConnectionLoss() {
	reconnected := make(chan struct{}, 1)
	s.manager.OnReconnect(func() { reconnected <- struct{}{} })
	received := make(chan struct{}, 4)
	s.manager.On(protocol.EventGameStarted, func(json.RawMessage) { received <- struct{}{} })
	s.connect()

	s.coordinator.DropConnections()

	select {
	case <-reconnected:
	case <-time.After(2 * time.Second):
		s.FailNow("reconnect hook never fired")
	}
	s.Require().Eventually(func() bool {
		return s.coordinator.ConnectionCount() == 1
	}, time.Second, time.Millisecond)

	// Keyed registration holds across the reconnect: one delivery, not two
	s.Require().NoError(s.coordinator.Push(protocol.EventGameStarted, nil))
	select {
	case <-received:
	case <-time.After(time.Second):
		s.FailNow("handler never fired after reconnect")
	}
	select {
	case <-received:
		s.FailNow("event delivered twice after reconnect")
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *ManagerSuite) TestRetriesExhausted() {
	errs := make(chan error, 8)
	s.manager.OnError(func(err error) { errs <- err })
	s.connect()

	// Taking the whole coordinator down makes every retry fail
	s.coordinator.Close()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case err := <-errs:
			if errors.Is(err, model.ErrRetriesExhausted) {
				return
			}
		case <-deadline:
			s.FailNow("terminal connectivity error never surfaced")
		}
	}
}

func (s *ManagerSuite) TestCloseStopsReconnecting() {
	reconnected := make(chan struct{}, 1)
	s.manager.OnReconnect(func() { reconnected <- struct{}{} })
	s.connect()

	s.Require().NoError(s.manager.Close())
	s.False(s.manager.Connected())

	select {
	case <-reconnected:
		s.FailNow("closed manager reconnected")
	case <-time.After(100 * time.Millisecond):
	}
}
