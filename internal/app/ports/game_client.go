package ports

import (
	"context"

	"blitzbot/internal/domain/board"
)

type SessionRequest struct {
	Key    string
	Mode   string
	GameID string
	Map    string
}

// GameClient talks to the game server. Both calls return the raw state
// document; on failure they return a finished document together with an
// error wrapping ErrTransport.
type GameClient interface {
	Start(ctx context.Context, req SessionRequest) ([]byte, error)
	Move(ctx context.Context, playURL string, dir board.Direction) ([]byte, error)
}
