package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"blitzbot/internal/app/ports"
)

type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) RunRepo {
	return RunRepo{db: db}
}

func (r RunRepo) Start(ctx context.Context, run ports.RunRecord) error {
	status := run.Status
	if status == "" {
		status = ports.RunStatusRunning
	}
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO bot_runs(run_id, mode, game_id, view_url, status, turns, started_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Mode, run.GameID, run.ViewURL, string(status), run.Turns, run.StartedAt.UnixMilli())
	if isConstraint(err) {
		return ports.ErrConflict
	}
	return err
}

func (r RunRepo) Progress(ctx context.Context, runID string, turns int) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE bot_runs SET turns = MAX(turns, ?) WHERE run_id = ?`, turns, runID)
	return affected(res, err)
}

func (r RunRepo) Finish(ctx context.Context, runID string, status ports.RunStatus, reason string, at time.Time) error {
	res, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE bot_runs SET status = ?, finish_reason = ?, finished_at = ? WHERE run_id = ?`,
		string(status), reason, at.UnixMilli(), runID)
	return affected(res, err)
}

func (r RunRepo) Get(ctx context.Context, runID string) (ports.RunRecord, error) {
	var (
		out        ports.RunRecord
		status     string
		startedAt  int64
		finishedAt sql.NullInt64
	)
	err := conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT run_id, mode, game_id, view_url, status, turns, finish_reason, started_at, finished_at FROM bot_runs WHERE run_id = ?`, runID).
		Scan(&out.RunID, &out.Mode, &out.GameID, &out.ViewURL, &status, &out.Turns, &out.FinishReason, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.RunRecord{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.RunRecord{}, err
	}
	out.Status = ports.RunStatus(status)
	out.StartedAt = time.UnixMilli(startedAt)
	if finishedAt.Valid {
		out.FinishedAt = time.UnixMilli(finishedAt.Int64)
	}
	return out, nil
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}
