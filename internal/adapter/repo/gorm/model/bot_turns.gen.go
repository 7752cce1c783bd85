package model

import (
	"time"
)

const TableNameBotTurn = "bot_turns"

// BotTurn mapped from table <bot_turns>
type BotTurn struct {
	ID         int64     `gorm:"column:id;type:bigint;primaryKey;autoIncrement:true" json:"id"`
	RunID      string    `gorm:"column:run_id;type:text;not null" json:"run_id"`
	Seq        int32     `gorm:"column:seq;type:integer;not null" json:"seq"`
	GameTurn   int32     `gorm:"column:game_turn;type:integer;not null" json:"game_turn"`
	Direction  string    `gorm:"column:direction;type:text;not null" json:"direction"`
	Rule       string    `gorm:"column:rule;type:text;not null" json:"rule"`
	TargetRow  *int32    `gorm:"column:target_row;type:integer" json:"target_row"`
	TargetCol  *int32    `gorm:"column:target_col;type:integer" json:"target_col"`
	Fallback   bool      `gorm:"column:fallback;type:boolean;not null" json:"fallback"`
	Life       int32     `gorm:"column:life;type:integer;not null" json:"life"`
	Calories   int32     `gorm:"column:calories;type:integer;not null" json:"calories"`
	Diagnostic string    `gorm:"column:diagnostic;type:text;not null" json:"diagnostic"`
	DecidedAt  time.Time `gorm:"column:decided_at;type:timestamp with time zone;not null" json:"decided_at"`
}

// TableName BotTurn's table name
func (*BotTurn) TableName() string {
	return TableNameBotTurn
}
