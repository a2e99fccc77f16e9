package storage

import (
	"context"

	"github.com/quizden/triviaroom-go/internal/model"
)

// Storage persists the client's local state: the session identity that lets
// a restarted client silently rejoin its room, and finished-room snapshots
// for the post-game results view. Authoritative room state never lives
// here; the coordinator owns that.
type Storage interface {
	// Session identity operations
	SaveSession(ctx context.Context, session *model.Session) error
	// GetSession returns model.ErrSessionMissing when no identity is stored
	GetSession(ctx context.Context) (*model.Session, error)
	ClearSession(ctx context.Context) error

	// Finished-room snapshot operations
	SaveRoomSnapshot(ctx context.Context, room *model.Room) error
	// GetRoomSnapshot returns model.ErrSnapshotNotFound when absent
	GetRoomSnapshot(ctx context.Context, id model.RoomID) (*model.Room, error)
}
