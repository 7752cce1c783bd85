package ports

import (
	"context"
	"time"

	"blitzbot/internal/domain/board"
)

type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusFinished RunStatus = "finished"
	RunStatusAborted  RunStatus = "aborted"
)

type RunRecord struct {
	RunID        string
	Mode         string
	GameID       string
	ViewURL      string
	Status       RunStatus
	Turns        int
	FinishReason string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// TurnRecord is one journaled decision. Seq is assigned by the caller and
// is unique per run.
type TurnRecord struct {
	RunID      string
	Seq        int
	GameTurn   int
	Direction  board.Direction
	Rule       string
	Target     board.Position
	HasTarget  bool
	Fallback   bool
	Life       int
	Calories   int
	Diagnostic string
	DecidedAt  time.Time
}

type RunRepository interface {
	Start(ctx context.Context, run RunRecord) error
	Progress(ctx context.Context, runID string, turns int) error
	Finish(ctx context.Context, runID string, status RunStatus, reason string, at time.Time) error
	Get(ctx context.Context, runID string) (RunRecord, error)
}

type TurnRepository interface {
	Append(ctx context.Context, turn TurnRecord) error
	// ListByRun returns turns in Seq order. A positive limit keeps the
	// most recent ones.
	ListByRun(ctx context.Context, runID string, limit int) ([]TurnRecord, error)
}
