package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quizden/triviaroom-go/internal/model"
)

func newJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join ROOM_CODE",
		Short: "Join an existing room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			ctx := cmd.Context()
			roomID := model.RoomID(args[0])

			resp, err := app.Coordinator.JoinRoom(ctx, roomID, model.PlayerName(name))
			if err != nil {
				return err
			}

			session := model.Session{
				RoomID:     resp.RoomID,
				PlayerName: resp.PlayerName,
				IsHost:     false,
				SavedAt:    time.Now(),
			}
			if err := app.Storage.SaveSession(ctx, &session); err != nil {
				return fmt.Errorf("joined room but session could not be saved: %w", err)
			}

			fmt.Printf("Joined room %s. Run 'trivia play' to enter the lobby.\n", resp.RoomID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your display name (required)")

	return cmd
}
