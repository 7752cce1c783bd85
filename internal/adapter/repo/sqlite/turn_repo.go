package sqliterepo

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"blitzbot/internal/app/ports"
	"blitzbot/internal/domain/board"
)

type TurnRepo struct {
	db *sql.DB
}

func NewTurnRepo(db *sql.DB) TurnRepo {
	return TurnRepo{db: db}
}

func (r TurnRepo) Append(ctx context.Context, turn ports.TurnRecord) error {
	var row, col sql.NullInt64
	if turn.HasTarget {
		row = sql.NullInt64{Int64: int64(turn.Target.Row), Valid: true}
		col = sql.NullInt64{Int64: int64(turn.Target.Col), Valid: true}
	}
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO bot_turns(run_id, seq, game_turn, direction, rule, target_row, target_col, fallback, life, calories, diagnostic, decided_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		turn.RunID, turn.Seq, turn.GameTurn, turn.Direction.String(), turn.Rule, row, col,
		turn.Fallback, turn.Life, turn.Calories, turn.Diagnostic, turn.DecidedAt.UnixMilli())
	if isConstraint(err) {
		return ports.ErrConflict
	}
	return err
}

func (r TurnRepo) ListByRun(ctx context.Context, runID string, limit int) ([]ports.TurnRecord, error) {
	q := `SELECT run_id, seq, game_turn, direction, rule, target_row, target_col, fallback, life, calories, diagnostic, decided_at
		FROM bot_turns WHERE run_id = ? ORDER BY seq DESC`
	args := []any{runID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ports.TurnRecord{}
	for rows.Next() {
		var (
			rec       ports.TurnRecord
			dir       string
			row, col  sql.NullInt64
			decidedAt int64
		)
		if err := rows.Scan(&rec.RunID, &rec.Seq, &rec.GameTurn, &dir, &rec.Rule, &row, &col,
			&rec.Fallback, &rec.Life, &rec.Calories, &rec.Diagnostic, &decidedAt); err != nil {
			return nil, err
		}
		if rec.Direction, err = board.ParseDirection(dir); err != nil {
			return nil, fmt.Errorf("turn %s/%d: %w", rec.RunID, rec.Seq, err)
		}
		if row.Valid && col.Valid {
			rec.Target = board.Position{Row: int(row.Int64), Col: int(col.Int64)}
			rec.HasTarget = true
		}
		rec.DecidedAt = time.UnixMilli(decidedAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}
