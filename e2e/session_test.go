package e2e

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quizden/triviaroom-go/internal/connection"
	"github.com/quizden/triviaroom-go/internal/engine"
	"github.com/quizden/triviaroom-go/internal/factory"
	"github.com/quizden/triviaroom-go/internal/model"
	"github.com/quizden/triviaroom-go/internal/protocol"
	"github.com/quizden/triviaroom-go/internal/testutil"
)

// SessionSuite plays a full game against the fake coordinator through the
// real wiring: factory, WebSocket connection, engine, store and storage.
type SessionSuite struct {
	suite.Suite
	coordinator *testutil.Coordinator
	app         *factory.App
	engine      *engine.Engine
	cancel      context.CancelFunc
	ctx         context.Context
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.coordinator = testutil.NewCoordinator()

	connCfg := connection.DefaultConfig(s.coordinator.WSURL())
	connCfg.MaxRetries = 3
	connCfg.RetryBackoff = 10 * time.Millisecond

	app, err := factory.New(factory.Config{
		ServerURL:  s.coordinator.URL(),
		SocketURL:  s.coordinator.WSURL(),
		Logger:     testutil.NopLogger(),
		Connection: &connCfg,
	})
	s.Require().NoError(err)
	s.app = app
	s.ctx = context.Background()
}

func (s *SessionSuite) TearDownTest() {
	if s.cancel != nil {
		s.cancel()
	}
	s.coordinator.Close()
}

func (s *SessionSuite) startEngine(session model.Session) {
	s.Require().NoError(s.app.Storage.SaveSession(s.ctx, &session))

	eng, err := s.app.NewEngine(session)
	s.Require().NoError(err)
	s.engine = eng

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() { _ = eng.Run(ctx) }()
}

func (s *SessionSuite) waitSnapshot(pred func(engine.Snapshot) bool) engine.Snapshot {
	deadline := time.After(5 * time.Second)
	for {
		select {
		case snap := <-s.engine.Updates():
			if pred(snap) {
				return snap
			}
		case <-deadline:
			s.FailNow("no snapshot matched")
			return engine.Snapshot{}
		}
	}
}

func (s *SessionSuite) waitReceived(event protocol.EventType, count int) protocol.Envelope {
	s.Require().Eventually(func() bool {
		return s.coordinator.CountReceived(event) >= count
	}, 5*time.Second, 5*time.Millisecond)

	var last protocol.Envelope
	for _, env := range s.coordinator.Received() {
		if env.Event == event {
			last = env
		}
	}
	return last
}

func (s *SessionSuite) gameRoom() *model.Room {
	return &model.Room{
		ID:   "ROOM01",
		Host: "alice",
		Players: []model.Player{
			{Name: "alice"},
			{Name: "bob"},
		},
		Questions: []model.Question{
			{Prompt: "Largest planet?", Options: []string{"Mars", "Jupiter", "Venus", "Saturn"}, CorrectAnswer: "Jupiter"},
			{Prompt: "Fastest land animal?", Options: []string{"Cheetah", "Lion", "Horse", "Ostrich"}, CorrectAnswer: "Cheetah"},
		},
		CurrentQuestion:  1,
		TimeLimitSeconds: 30,
	}
}

func (s *SessionSuite) TestFullGameAsHost() {
	s.startEngine(model.Session{RoomID: "ROOM01", PlayerName: "alice", IsHost: true})

	// The engine joins with the persisted identity
	env := s.waitReceived(protocol.EventHostJoin, 1)
	var join protocol.HostJoinPayload
	s.Require().NoError(json.Unmarshal(env.Data, &join))
	s.Equal(model.RoomID("ROOM01"), join.RoomID)

	// Join acknowledgment lands the client in the lobby
	s.Require().NoError(s.coordinator.Push(protocol.EventHostJoined, s.gameRoom()))
	snap := s.waitSnapshot(func(snap engine.Snapshot) bool {
		return snap.Phase == model.PhaseLobby && snap.Room.ID == "ROOM01"
	})
	s.True(snap.IsHost)
	s.Len(snap.Room.Players, 2)

	// Host starts; the coordinator broadcasts gameStarted
	s.engine.StartGame()
	s.waitReceived(protocol.EventStartGame, 1)
	s.Require().NoError(s.coordinator.Push(protocol.EventGameStarted, nil))
	snap = s.waitSnapshot(func(snap engine.Snapshot) bool {
		return snap.Phase == model.PhaseAwaitingAnswer
	})
	s.Equal("Largest planet?", snap.Room.ActiveQuestion().Prompt)

	// Round one: answer correctly and watch the score come back
	s.engine.SelectAnswer("Jupiter")
	s.engine.SubmitAnswer()
	env = s.waitReceived(protocol.EventSubmitAnswer, 1)
	var answer protocol.SubmitAnswerPayload
	s.Require().NoError(json.Unmarshal(env.Data, &answer))
	s.Equal(model.PlayerName("alice"), answer.PlayerName)
	s.GreaterOrEqual(answer.Points, 100)

	s.Require().NoError(s.coordinator.Push(protocol.EventUpdatePlayerScore,
		protocol.ScoreUpdatePayload{PlayerName: "alice", Score: answer.Points}))
	s.Require().NoError(s.coordinator.Push(protocol.EventAllAnswered, nil))
	snap = s.waitSnapshot(func(snap engine.Snapshot) bool {
		return snap.Phase == model.PhaseRoundResults
	})
	s.Equal(answer.Points, snap.Room.GetPlayer("alice").Score)

	// Round two
	s.Require().NoError(s.coordinator.Push(protocol.EventNextQuestion,
		protocol.NextQuestionPayload{Index: 2}))
	snap = s.waitSnapshot(func(snap engine.Snapshot) bool {
		return snap.Phase == model.PhaseAwaitingAnswer && snap.Room.CurrentQuestion == 2
	})
	s.Empty(snap.SelectedAnswer)

	s.engine.SelectAnswer("Cheetah")
	s.engine.SubmitAnswer()
	s.waitReceived(protocol.EventSubmitAnswer, 2)

	// The coordinator closes the game
	s.Require().NoError(s.coordinator.Push(protocol.EventAllAnswered, nil))
	s.Require().NoError(s.coordinator.Push(protocol.EventGameEnd, nil))
	snap = s.waitSnapshot(func(snap engine.Snapshot) bool {
		return snap.Phase == model.PhaseGameOver
	})

	// Persist the final snapshot and read the authoritative results back
	s.Require().NoError(s.app.Storage.SaveRoomSnapshot(s.ctx, snap.Room))
	local, err := s.app.Storage.GetRoomSnapshot(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.Equal(snap.Room.GetPlayer("alice").Score, local.GetPlayer("alice").Score)

	s.coordinator.SetRoom(snap.Room)
	final, err := s.app.Coordinator.GameOver(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.Equal(local.GetPlayer("alice").Score, final.GetPlayer("alice").Score)
}

func (s *SessionSuite) TestChatDuringLobby() {
	s.startEngine(model.Session{RoomID: "ROOM01", PlayerName: "bob"})
	s.waitReceived(protocol.EventJoinRoom, 1)

	s.Require().NoError(s.coordinator.Push(protocol.EventPlayerJoined, s.gameRoom()))
	s.waitSnapshot(func(snap engine.Snapshot) bool { return snap.Room.ID == "ROOM01" })

	s.engine.SendChat("hello everyone")
	env := s.waitReceived(protocol.EventSendMessage, 1)
	var msg protocol.SendMessagePayload
	s.Require().NoError(json.Unmarshal(env.Data, &msg))
	s.Equal("hello everyone", msg.Text)

	// The message appears only once the coordinator rebroadcasts it
	s.Require().NoError(s.coordinator.Push(protocol.EventReceivedMessage,
		protocol.MessagePayload{Text: msg.Text, PlayerName: "bob"}))
	snap := s.waitSnapshot(func(snap engine.Snapshot) bool {
		return len(snap.Room.Messages) == 1
	})
	s.Equal("hello everyone", snap.Room.Messages[0].Text)
}

func (s *SessionSuite) TestReconnectRejoinsSilently() {
	s.startEngine(model.Session{RoomID: "ROOM01", PlayerName: "alice", IsHost: true})
	s.waitReceived(protocol.EventHostJoin, 1)

	s.coordinator.DropConnections()

	// The connection manager retries and the engine rejoins on its own
	s.waitReceived(protocol.EventHostJoin, 2)
}
