package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quizden/triviaroom-go/internal/engine"
	"github.com/quizden/triviaroom-go/internal/model"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Enter your room and play",
		Long: `play connects to the coordinator using the persisted session and runs
the game loop. Type a number to answer the current question, anything
else to chat. Commands: /start (host), /next (host), /again, /quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.Storage.GetSession(cmd.Context())
			if err != nil {
				if errors.Is(err, model.ErrSessionMissing) {
					// Entry-flow redirect: never emit a malformed join
					return fmt.Errorf("no active session; run 'trivia host' or 'trivia join' first")
				}
				return err
			}

			eng, err := app.NewEngine(*session)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			errCh := make(chan error, 1)
			go func() { errCh <- eng.Run(ctx) }()
			go readIntents(ctx, cancel, eng)

			renderer := newRenderer(os.Stdout)
			finished := false
			for {
				select {
				case snap := <-eng.Updates():
					renderer.Render(&snap)
					if snap.Phase == model.PhaseGameOver && !finished {
						finished = true
						if err := finishGame(ctx, snap.Room); err != nil {
							return err
						}
						fmt.Println("Type /again for a rematch or /quit to exit.")
					}
					if snap.Phase != model.PhaseGameOver {
						finished = false
					}
				case n := <-eng.Notifications():
					renderer.Notify(n)
				case err := <-errCh:
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				case <-ctx.Done():
					return nil
				}
			}
		},
	}
}

// readIntents turns stdin lines into engine intents
func readIntents(ctx context.Context, cancel context.CancelFunc, eng *engine.Engine) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "/quit":
			cancel()
			return
		case line == "/start":
			eng.StartGame()
		case line == "/next":
			eng.AdvanceQuestion()
		case line == "/again":
			eng.PlayAgain()
		case isOptionNumber(line):
			// Selection and submission in one step; the engine
			// validates the option against the current question
			eng.SelectAnswerByIndex(mustAtoi(line) - 1)
			eng.SubmitAnswer()
		default:
			eng.SendChat(line)
		}
	}
}

// finishGame stores the final snapshot and prints the authoritative results
func finishGame(ctx context.Context, room *model.Room) error {
	if err := app.Storage.SaveRoomSnapshot(ctx, room); err != nil {
		app.Logger.Warn("could not store final room snapshot")
	}

	final, err := app.Coordinator.GameOver(ctx, room.ID)
	if err != nil {
		// The local snapshot is still good enough to show standings
		app.Logger.Warn("results fetch failed; using local snapshot")
		final = room
	}
	printStandings(os.Stdout, final)
	return nil
}

func isOptionNumber(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1 && n <= 26
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
