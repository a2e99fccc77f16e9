package redis

import (
	"fmt"

	"github.com/quizden/triviaroom-go/internal/model"
)

// Key prefix for all client-local data
const keyPrefix = "triviaroom"

// sessionKey returns the Redis key for the persisted session identity
func sessionKey() string {
	return fmt.Sprintf("%s:session", keyPrefix)
}

// snapshotKey returns the Redis key for a finished-room snapshot
func snapshotKey(id model.RoomID) string {
	return fmt.Sprintf("%s:snapshot:%s", keyPrefix, id)
}
