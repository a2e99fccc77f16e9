package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizden/triviaroom-go/internal/model"
)

func newResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results [ROOM_CODE]",
		Short: "Show the final scores for a finished game",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var roomID model.RoomID
			if len(args) == 1 {
				roomID = model.RoomID(args[0])
			} else {
				session, err := app.Storage.GetSession(ctx)
				if err != nil {
					if errors.Is(err, model.ErrSessionMissing) {
						return fmt.Errorf("no room code given and no persisted session")
					}
					return err
				}
				roomID = session.RoomID
			}

			room, err := app.Coordinator.GameOver(ctx, roomID)
			if err != nil {
				// Fall back to the locally stored snapshot
				local, lerr := app.Storage.GetRoomSnapshot(ctx, roomID)
				if lerr != nil {
					return err
				}
				room = local
			}

			printStandings(os.Stdout, room)
			return nil
		},
	}
}
