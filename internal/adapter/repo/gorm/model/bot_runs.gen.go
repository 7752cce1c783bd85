package model

import (
	"time"
)

const TableNameBotRun = "bot_runs"

// BotRun mapped from table <bot_runs>
type BotRun struct {
	RunID        string     `gorm:"column:run_id;type:text;primaryKey" json:"run_id"`
	Mode         string     `gorm:"column:mode;type:text;not null" json:"mode"`
	GameID       string     `gorm:"column:game_id;type:text;not null" json:"game_id"`
	ViewURL      string     `gorm:"column:view_url;type:text;not null" json:"view_url"`
	Status       string     `gorm:"column:status;type:text;not null" json:"status"`
	Turns        int32      `gorm:"column:turns;type:integer;not null" json:"turns"`
	FinishReason string     `gorm:"column:finish_reason;type:text;not null" json:"finish_reason"`
	StartedAt    time.Time  `gorm:"column:started_at;type:timestamp with time zone;not null" json:"started_at"`
	FinishedAt   *time.Time `gorm:"column:finished_at;type:timestamp with time zone" json:"finished_at"`
}

// TableName BotRun's table name
func (*BotRun) TableName() string {
	return TableNameBotRun
}
