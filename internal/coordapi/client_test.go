package coordapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/quizden/triviaroom-go/internal/model"
	"github.com/quizden/triviaroom-go/internal/testutil"
)

type ClientSuite struct {
	suite.Suite
	coordinator *testutil.Coordinator
	client      *Client
	ctx         context.Context
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.coordinator = testutil.NewCoordinator()
	s.client = NewClient(s.coordinator.URL())
	s.ctx = context.Background()
}

func (s *ClientSuite) TearDownTest() {
	s.coordinator.Close()
}

func (s *ClientSuite) TestCreateRoom() {
	s.coordinator.NextRoomID = "ABC123"

	resp, err := s.client.CreateRoom(s.ctx, CreateRoomRequest{
		PlayerName:       "alice",
		NumQuestions:     5,
		Difficulty:       model.DifficultyMedium,
		TimeLimitSeconds: 30,
	})
	s.Require().NoError(err)
	s.Equal(model.RoomID("ABC123"), resp.RoomID)
	s.Equal(model.PlayerName("alice"), resp.PlayerName)
}

func (s *ClientSuite) TestJoinRoom() {
	resp, err := s.client.JoinRoom(s.ctx, "ROOM01", "bob")
	s.Require().NoError(err)
	s.Equal(model.RoomID("ROOM01"), resp.RoomID)
	s.Equal(model.PlayerName("bob"), resp.PlayerName)
}

func (s *ClientSuite) TestGameOver() {
	s.coordinator.SetRoom(&model.Room{
		ID: "ROOM01",
		Players: []model.Player{
			{Name: "alice", Score: 400},
			{Name: "bob", Score: 183},
		},
	})

	room, err := s.client.GameOver(s.ctx, "ROOM01")
	s.Require().NoError(err)
	s.Equal(model.RoomID("ROOM01"), room.ID)
	s.Len(room.Players, 2)
	s.Equal(400, room.Players[0].Score)
}

func (s *ClientSuite) TestGameOverUnknownRoom() {
	_, err := s.client.GameOver(s.ctx, "NOPE")
	s.Require().Error(err)
	s.Contains(err.Error(), "no such room")
}

func (s *ClientSuite) TestUnreachableCoordinator() {
	s.coordinator.Close()

	_, err := s.client.CreateRoom(s.ctx, CreateRoomRequest{PlayerName: "alice"})
	s.Error(err)
}
