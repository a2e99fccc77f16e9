package coordapi

import (
	"context"
	"fmt"

	"github.com/quizden/triviaroom-go/internal/model"
)

// CreateRoomRequest configures a new room. Questions are fetched by the
// host client and handed to the coordinator, which fixes their order for
// the whole game.
type CreateRoomRequest struct {
	PlayerName       model.PlayerName `json:"playerName"`
	NumQuestions     int              `json:"numQuestions"`
	Category         int              `json:"category"`
	Difficulty       model.Difficulty `json:"difficulty"`
	TimeLimitSeconds int              `json:"timeLimit"`
	Questions        []model.Question `json:"questions,omitempty"`
}

// CreateRoomResponse acknowledges a created room
type CreateRoomResponse struct {
	RoomID     model.RoomID     `json:"roomId"`
	PlayerName model.PlayerName `json:"playerName"`
}

// JoinRoomResponse acknowledges a joined room
type JoinRoomResponse struct {
	RoomID     model.RoomID     `json:"roomId"`
	PlayerName model.PlayerName `json:"playerName"`
}

// CreateRoom asks the coordinator for a fresh room and returns its code
func (c *Client) CreateRoom(ctx context.Context, req CreateRoomRequest) (*CreateRoomResponse, error) {
	var resp CreateRoomResponse
	if err := c.Post(ctx, "/api/rooms", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	if resp.RoomID == "" {
		return nil, fmt.Errorf("coordinator returned no room id")
	}
	return &resp, nil
}

// JoinRoom registers a player with an existing room
func (c *Client) JoinRoom(ctx context.Context, roomID model.RoomID, playerName model.PlayerName) (*JoinRoomResponse, error) {
	body := map[string]any{"playerName": playerName}
	var resp JoinRoomResponse
	if err := c.Post(ctx, fmt.Sprintf("/api/rooms/%s/join", roomID), body, &resp); err != nil {
		return nil, fmt.Errorf("failed to join room %s: %w", roomID, err)
	}
	return &resp, nil
}

// GameOver retrieves the finalized room snapshot for the results view
func (c *Client) GameOver(ctx context.Context, roomID model.RoomID) (*model.Room, error) {
	var room model.Room
	if err := c.Get(ctx, fmt.Sprintf("/api/game-over/%s", roomID), &room); err != nil {
		return nil, fmt.Errorf("failed to fetch results for room %s: %w", roomID, err)
	}
	return &room, nil
}
