package replay

import "blitzbot/internal/domain/board"

type Request struct {
	RunID        string
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
}

type Run struct {
	RunID        string `json:"run_id"`
	Mode         string `json:"mode"`
	GameID       string `json:"game_id,omitempty"`
	ViewURL      string `json:"view_url,omitempty"`
	Status       string `json:"status"`
	Turns        int    `json:"turns"`
	FinishReason string `json:"finish_reason,omitempty"`
	StartedAt    int64  `json:"started_at"`
	FinishedAt   int64  `json:"finished_at,omitempty"`
}

type Turn struct {
	Seq        int             `json:"seq"`
	GameTurn   int             `json:"game_turn"`
	Direction  board.Direction `json:"direction"`
	Rule       string          `json:"rule"`
	Target     *board.Position `json:"target,omitempty"`
	Fallback   bool            `json:"fallback"`
	Life       int             `json:"life"`
	Calories   int             `json:"calories"`
	Diagnostic string          `json:"diagnostic,omitempty"`
	DecidedAt  int64           `json:"decided_at"`
}

type Response struct {
	Run       Run            `json:"run"`
	Turns     []Turn         `json:"turns"`
	ByRule    map[string]int `json:"by_rule"`
	Fallbacks int            `json:"fallbacks"`
}
