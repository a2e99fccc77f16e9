package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quizden/triviaroom-go/internal/coordapi"
	"github.com/quizden/triviaroom-go/internal/model"
)

func newHostCmd() *cobra.Command {
	var (
		name         string
		numQuestions int
		category     int
		difficulty   string
		timeLimit    int
	)

	cmd := &cobra.Command{
		Use:   "host",
		Short: "Create a room and become its host",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			ctx := cmd.Context()

			questions, err := app.Trivia.FetchQuestions(ctx, numQuestions, category, model.Difficulty(difficulty))
			if err != nil {
				return err
			}

			resp, err := app.Coordinator.CreateRoom(ctx, coordapi.CreateRoomRequest{
				PlayerName:       model.PlayerName(name),
				NumQuestions:     numQuestions,
				Category:         category,
				Difficulty:       model.Difficulty(difficulty),
				TimeLimitSeconds: timeLimit,
				Questions:        questions,
			})
			if err != nil {
				return err
			}

			session := model.Session{
				RoomID:     resp.RoomID,
				PlayerName: resp.PlayerName,
				IsHost:     true,
				SavedAt:    time.Now(),
			}
			if err := app.Storage.SaveSession(ctx, &session); err != nil {
				return fmt.Errorf("room created but session could not be saved: %w", err)
			}

			fmt.Printf("Room %s created. Share the code, then run 'trivia play'.\n", resp.RoomID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your display name (required)")
	cmd.Flags().IntVar(&numQuestions, "questions", 10, "Number of questions")
	cmd.Flags().IntVar(&category, "category", 0, "Open Trivia DB category id (0 = any)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "mixed", "Difficulty: easy, medium, hard, mixed")
	cmd.Flags().IntVar(&timeLimit, "time-limit", 30, "Seconds per question")

	return cmd
}
