package gormrepo

import (
	"context"
	"errors"
	"time"

	"blitzbot/internal/adapter/repo/gorm/model"
	"blitzbot/internal/app/ports"

	"gorm.io/gorm"
)

type RunRepo struct {
	db *gorm.DB
}

func NewRunRepo(db *gorm.DB) RunRepo {
	return RunRepo{db: db}
}

func (r RunRepo) Start(ctx context.Context, run ports.RunRecord) error {
	status := run.Status
	if status == "" {
		status = ports.RunStatusRunning
	}
	m := model.BotRun{
		RunID:     run.RunID,
		Mode:      run.Mode,
		GameID:    run.GameID,
		ViewURL:   run.ViewURL,
		Status:    string(status),
		Turns:     int32(run.Turns),
		StartedAt: run.StartedAt,
	}
	err := dbFrom(ctx, r.db).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrConflict
	}
	return err
}

func (r RunRepo) Progress(ctx context.Context, runID string, turns int) error {
	res := dbFrom(ctx, r.db).
		Model(&model.BotRun{}).
		Where("run_id = ?", runID).
		Update("turns", gorm.Expr("GREATEST(turns, ?)", turns))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r RunRepo) Finish(ctx context.Context, runID string, status ports.RunStatus, reason string, at time.Time) error {
	res := dbFrom(ctx, r.db).
		Model(&model.BotRun{}).
		Where("run_id = ?", runID).
		Updates(map[string]any{
			"status":        string(status),
			"finish_reason": reason,
			"finished_at":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r RunRepo) Get(ctx context.Context, runID string) (ports.RunRecord, error) {
	var m model.BotRun
	err := dbFrom(ctx, r.db).Where("run_id = ?", runID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.RunRecord{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.RunRecord{}, err
	}
	out := ports.RunRecord{
		RunID:        m.RunID,
		Mode:         m.Mode,
		GameID:       m.GameID,
		ViewURL:      m.ViewURL,
		Status:       ports.RunStatus(m.Status),
		Turns:        int(m.Turns),
		FinishReason: m.FinishReason,
		StartedAt:    m.StartedAt,
	}
	if m.FinishedAt != nil {
		out.FinishedAt = *m.FinishedAt
	}
	return out, nil
}
