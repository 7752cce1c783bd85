package replay

import (
	"context"
	"errors"
	"strings"

	"blitzbot/internal/app/ports"
)

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	Runs  ports.RunRepository
	Turns ports.TurnRepository
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.RunID = strings.TrimSpace(req.RunID)
	if req.RunID == "" || req.Limit < 0 {
		return Response{}, ErrInvalidRequest
	}
	run, err := u.Runs.Get(ctx, req.RunID)
	if err != nil {
		return Response{}, err
	}
	turns, err := u.Turns.ListByRun(ctx, req.RunID, req.Limit)
	if err != nil {
		return Response{}, err
	}
	turns = filterByTimeWindow(turns, req.OccurredFrom, req.OccurredTo)

	out := Response{Run: toRun(run), Turns: make([]Turn, 0, len(turns)), ByRule: map[string]int{}}
	for _, t := range turns {
		out.Turns = append(out.Turns, toTurn(t))
		out.ByRule[t.Rule]++
		if t.Fallback {
			out.Fallbacks++
		}
	}
	return out, nil
}

func filterByTimeWindow(turns []ports.TurnRecord, from, to int64) []ports.TurnRecord {
	if from <= 0 && to <= 0 {
		return turns
	}
	out := make([]ports.TurnRecord, 0, len(turns))
	for _, t := range turns {
		ts := t.DecidedAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, t)
	}
	return out
}

func toRun(r ports.RunRecord) Run {
	out := Run{
		RunID:        r.RunID,
		Mode:         r.Mode,
		GameID:       r.GameID,
		ViewURL:      r.ViewURL,
		Status:       string(r.Status),
		Turns:        r.Turns,
		FinishReason: r.FinishReason,
		StartedAt:    r.StartedAt.Unix(),
	}
	if !r.FinishedAt.IsZero() {
		out.FinishedAt = r.FinishedAt.Unix()
	}
	return out
}

func toTurn(t ports.TurnRecord) Turn {
	out := Turn{
		Seq:        t.Seq,
		GameTurn:   t.GameTurn,
		Direction:  t.Direction,
		Rule:       t.Rule,
		Fallback:   t.Fallback,
		Life:       t.Life,
		Calories:   t.Calories,
		Diagnostic: t.Diagnostic,
		DecidedAt:  t.DecidedAt.Unix(),
	}
	if t.HasTarget {
		p := t.Target
		out.Target = &p
	}
	return out
}
