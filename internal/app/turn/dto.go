package turn

import (
	"blitzbot/internal/app/policy"
	"blitzbot/internal/domain/board"
)

type Request struct {
	RunID string
	Seq   int
	Raw   []byte
}

type Response struct {
	Direction  board.Direction `json:"direction"`
	Rule       policy.Rule     `json:"rule,omitempty"`
	Target     *board.Position `json:"target,omitempty"`
	CustomerID int             `json:"customer_id,omitempty"`
	Fallback   bool            `json:"fallback"`
	Finished   bool            `json:"finished"`
	GameTurn   int             `json:"game_turn"`
	PlayURL    string          `json:"play_url,omitempty"`
	ViewURL    string          `json:"view_url,omitempty"`
	Diagnostic string          `json:"diagnostic,omitempty"`
}

type traceEntry struct {
	RunID      string          `json:"run_id,omitempty"`
	Seq        int             `json:"seq"`
	GameTurn   int             `json:"game_turn"`
	Direction  board.Direction `json:"direction"`
	Rule       policy.Rule     `json:"rule"`
	Target     *board.Position `json:"target,omitempty"`
	Fallback   bool            `json:"fallback"`
	Life       int             `json:"life"`
	Calories   int             `json:"calories"`
	Diagnostic string          `json:"diagnostic,omitempty"`
	DecidedAt  int64           `json:"decided_at"`
}
