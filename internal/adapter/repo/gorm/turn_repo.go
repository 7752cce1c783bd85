package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"blitzbot/internal/adapter/repo/gorm/model"
	"blitzbot/internal/app/ports"
	"blitzbot/internal/domain/board"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TurnRepo struct {
	db *gorm.DB
}

func NewTurnRepo(db *gorm.DB) TurnRepo {
	return TurnRepo{db: db}
}

func (r TurnRepo) Append(ctx context.Context, turn ports.TurnRecord) error {
	m := model.BotTurn{
		RunID:      turn.RunID,
		Seq:        int32(turn.Seq),
		GameTurn:   int32(turn.GameTurn),
		Direction:  turn.Direction.String(),
		Rule:       turn.Rule,
		Fallback:   turn.Fallback,
		Life:       int32(turn.Life),
		Calories:   int32(turn.Calories),
		Diagnostic: turn.Diagnostic,
		DecidedAt:  turn.DecidedAt,
	}
	if turn.HasTarget {
		row, col := int32(turn.Target.Row), int32(turn.Target.Col)
		m.TargetRow, m.TargetCol = &row, &col
	}
	err := dbFrom(ctx, r.db).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrConflict
	}
	return err
}

func (r TurnRepo) ListByRun(ctx context.Context, runID string, limit int) ([]ports.TurnRecord, error) {
	rows := []model.BotTurn{}
	query := dbFrom(ctx, r.db).
		Where(&model.BotTurn{RunID: runID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "seq"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	slices.Reverse(rows)

	out := make([]ports.TurnRecord, 0, len(rows))
	for _, row := range rows {
		dir, err := board.ParseDirection(row.Direction)
		if err != nil {
			return nil, fmt.Errorf("turn %s/%d: %w", row.RunID, row.Seq, err)
		}
		rec := ports.TurnRecord{
			RunID:      row.RunID,
			Seq:        int(row.Seq),
			GameTurn:   int(row.GameTurn),
			Direction:  dir,
			Rule:       row.Rule,
			Fallback:   row.Fallback,
			Life:       int(row.Life),
			Calories:   int(row.Calories),
			Diagnostic: row.Diagnostic,
			DecidedAt:  row.DecidedAt,
		}
		if row.TargetRow != nil && row.TargetCol != nil {
			rec.Target = board.Position{Row: int(*row.TargetRow), Col: int(*row.TargetCol)}
			rec.HasTarget = true
		}
		out = append(out, rec)
	}
	return out, nil
}
