package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/quizden/triviaroom-go/internal/engine"
	"github.com/quizden/triviaroom-go/internal/model"
)

// renderer prints game snapshots to the terminal. It redraws only when the
// interesting parts of the frame change, so countdown ticks do not flood
// the screen with repeated question text.
type renderer struct {
	w io.Writer

	lastPhase    model.Phase
	lastQuestion int
	lastMessages int
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{w: w, lastQuestion: -1}
}

// Render draws one snapshot
func (r *renderer) Render(snap *engine.Snapshot) {
	room := snap.Room

	if len(room.Messages) > r.lastMessages {
		for _, msg := range room.Messages[r.lastMessages:] {
			fmt.Fprintf(r.w, "[%s] %s\n", msg.Author, msg.Text)
		}
		r.lastMessages = len(room.Messages)
	}

	newRound := snap.Phase != r.lastPhase || room.CurrentQuestion != r.lastQuestion
	r.lastPhase = snap.Phase
	r.lastQuestion = room.CurrentQuestion
	if !newRound {
		return
	}

	switch snap.Phase {
	case model.PhaseLobby:
		fmt.Fprintf(r.w, "\n-- Lobby: room %s --\n", room.ID)
		for _, p := range room.Players {
			marker := ""
			if p.Name == room.Host {
				marker = " (host)"
			}
			fmt.Fprintf(r.w, "  %s%s\n", p.Name, marker)
		}
		if snap.IsHost {
			fmt.Fprintln(r.w, "Type /start to begin.")
		} else {
			fmt.Fprintln(r.w, "Waiting for the host to start...")
		}

	case model.PhaseAwaitingAnswer:
		q := room.ActiveQuestion()
		if q == nil {
			return
		}
		fmt.Fprintf(r.w, "\n-- Question %d/%d (%ds) --\n", room.CurrentQuestion, len(room.Questions), snap.TimeLeft)
		fmt.Fprintln(r.w, q.Prompt)
		for i, opt := range q.Options {
			fmt.Fprintf(r.w, "  %d) %s\n", i+1, opt)
		}

	case model.PhaseAnswered:
		fmt.Fprintf(r.w, "Answer locked in: %s. Waiting for the others...\n", snap.SelectedAnswer)

	case model.PhaseRoundResults:
		fmt.Fprintf(r.w, "\n-- Round %d results (next in %ds) --\n", room.CurrentQuestion, snap.ResultsCountdown)
		writeScores(r.w, room)

	case model.PhaseGameOver:
		fmt.Fprintln(r.w, "\n-- Game over --")
	}
}

// Notify prints a user-facing notification
func (r *renderer) Notify(n engine.Notification) {
	switch n.Level {
	case engine.LevelError:
		fmt.Fprintf(r.w, "error: %s\n", n.Message)
	case engine.LevelWarning:
		fmt.Fprintf(r.w, "warning: %s\n", n.Message)
	default:
		fmt.Fprintln(r.w, n.Message)
	}
}

// printStandings renders the final scoreboard, highest score first
func printStandings(w io.Writer, room *model.Room) {
	players := make([]model.Player, len(room.Players))
	copy(players, room.Players)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})

	fmt.Fprintf(w, "\nFinal standings for room %s:\n", room.ID)
	for i, p := range players {
		fmt.Fprintf(w, "  %d. %-20s %d\n", i+1, p.Name, p.Score)
	}
}

func writeScores(w io.Writer, room *model.Room) {
	for _, p := range room.Players {
		fmt.Fprintf(w, "  %-20s %d\n", p.Name, p.Score)
	}
}
