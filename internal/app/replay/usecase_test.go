package replay

import (
	"context"
	"errors"
	"testing"
	"time"

	"blitzbot/internal/app/ports"
	"blitzbot/internal/domain/board"
)

func TestUseCase_TalliesRulesAndFallbacks(t *testing.T) {
	runs := fakeRuns{run: ports.RunRecord{RunID: "run-1", Mode: "training", Status: ports.RunStatusFinished, Turns: 3, StartedAt: time.Unix(10, 0), FinishedAt: time.Unix(40, 0)}}
	turns := fakeTurns{turns: []ports.TurnRecord{
		{RunID: "run-1", Seq: 1, Direction: board.East, Rule: "adjacent_pickup", Target: board.Position{Row: 1, Col: 2}, HasTarget: true, DecidedAt: time.Unix(11, 0)},
		{RunID: "run-1", Seq: 2, Direction: board.North, Rule: "customer", Target: board.Position{Row: 0, Col: 0}, HasTarget: true, DecidedAt: time.Unix(12, 0)},
		{RunID: "run-1", Seq: 3, Direction: board.Stay, Rule: "fallback", Fallback: true, DecidedAt: time.Unix(13, 0)},
	}}

	out, err := UseCase{Runs: runs, Turns: turns}.Execute(context.Background(), Request{RunID: " run-1 ", Limit: 10})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if out.Run.Status != "finished" || out.Run.FinishedAt != 40 {
		t.Fatalf("unexpected run: %+v", out.Run)
	}
	if len(out.Turns) != 3 || out.Fallbacks != 1 {
		t.Fatalf("expected 3 turns and 1 fallback, got %d/%d", len(out.Turns), out.Fallbacks)
	}
	if out.ByRule["customer"] != 1 || out.ByRule["fallback"] != 1 || out.ByRule["adjacent_pickup"] != 1 {
		t.Fatalf("unexpected tally: %+v", out.ByRule)
	}
	if out.Turns[0].Target == nil || out.Turns[2].Target != nil {
		t.Fatalf("targets should follow HasTarget")
	}
}

func TestUseCase_FiltersByDecisionTime(t *testing.T) {
	turns := fakeTurns{turns: []ports.TurnRecord{
		{Seq: 1, Rule: "customer", DecidedAt: time.Unix(100, 0)},
		{Seq: 2, Rule: "customer", DecidedAt: time.Unix(200, 0)},
		{Seq: 3, Rule: "customer", DecidedAt: time.Unix(300, 0)},
	}}

	out, err := UseCase{Runs: fakeRuns{}, Turns: turns}.Execute(context.Background(), Request{RunID: "r", OccurredFrom: 150, OccurredTo: 250})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(out.Turns) != 1 || out.Turns[0].Seq != 2 {
		t.Fatalf("expected only seq 2, got %+v", out.Turns)
	}
}

func TestUseCase_RejectsEmptyRunID(t *testing.T) {
	if _, err := (UseCase{}).Execute(context.Background(), Request{RunID: "  "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestUseCase_PropagatesNotFound(t *testing.T) {
	uc := UseCase{Runs: fakeRuns{err: ports.ErrNotFound}, Turns: fakeTurns{}}
	if _, err := uc.Execute(context.Background(), Request{RunID: "missing"}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type fakeRuns struct {
	run ports.RunRecord
	err error
}

func (r fakeRuns) Start(context.Context, ports.RunRecord) error { return nil }

func (r fakeRuns) Progress(context.Context, string, int) error { return nil }

func (r fakeRuns) Get(context.Context, string) (ports.RunRecord, error) { return r.run, r.err }

func (r fakeRuns) Finish(context.Context, string, ports.RunStatus, string, time.Time) error {
	return nil
}

type fakeTurns struct {
	turns []ports.TurnRecord
}

func (r fakeTurns) Append(context.Context, ports.TurnRecord) error { return nil }

func (r fakeTurns) ListByRun(context.Context, string, int) ([]ports.TurnRecord, error) {
	return r.turns, nil
}

var (
	_ ports.RunRepository  = fakeRuns{}
	_ ports.TurnRepository = fakeTurns{}
)
