package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"blitzbot/internal/app/ports"
	"blitzbot/internal/domain/board"
)

var (
	_ ports.RunRepository  = RunRepo{}
	_ ports.TurnRepository = TurnRepo{}
	_ ports.TxManager      = TxManager{}
)

func TestRunRepo_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	runs := NewRunRepo(store)

	if err := runs.Start(ctx, ports.RunRecord{RunID: "r1", Mode: "training", StartedAt: time.Unix(1, 0)}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := runs.Start(ctx, ports.RunRecord{RunID: "r1"}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate start, got %v", err)
	}
	if err := runs.Progress(ctx, "r1", 5); err != nil {
		t.Fatalf("progress: %v", err)
	}
	if err := runs.Progress(ctx, "r1", 3); err != nil {
		t.Fatalf("progress: %v", err)
	}
	if err := runs.Finish(ctx, "r1", ports.RunStatusFinished, "game over", time.Unix(9, 0)); err != nil {
		t.Fatalf("finish: %v", err)
	}

	got, err := runs.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != ports.RunStatusFinished || got.Turns != 5 || got.FinishReason != "game over" || !got.FinishedAt.Equal(time.Unix(9, 0)) {
		t.Fatalf("unexpected run: %+v", got)
	}
	if _, err := runs.Get(ctx, "missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := runs.Progress(ctx, "missing", 1); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTurnRepo_OrdersBySeqAndKeepsMostRecent(t *testing.T) {
	ctx := context.Background()
	turns := NewTurnRepo(NewStore())

	for _, seq := range []int{2, 1, 4, 3} {
		if err := turns.Append(ctx, ports.TurnRecord{RunID: "r1", Seq: seq, Direction: board.North}); err != nil {
			t.Fatalf("append %d: %v", seq, err)
		}
	}
	if err := turns.Append(ctx, ports.TurnRecord{RunID: "r1", Seq: 3}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	all, _ := turns.ListByRun(ctx, "r1", 0)
	for i, rec := range all {
		if rec.Seq != i+1 {
			t.Fatalf("turn %d has seq %d", i, rec.Seq)
		}
	}
	last, _ := turns.ListByRun(ctx, "r1", 2)
	if len(last) != 2 || last[0].Seq != 3 || last[1].Seq != 4 {
		t.Fatalf("unexpected limited list: %+v", last)
	}
	if none, _ := turns.ListByRun(ctx, "other", 0); len(none) != 0 {
		t.Fatalf("expected no turns for unknown run")
	}
}

func TestTxManager_RunsRepoCallsInside(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.SeedRun(ports.RunRecord{RunID: "r1"})
	tx := NewTxManager(store)
	runs, turns := NewRunRepo(store), NewTurnRepo(store)

	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := turns.Append(txCtx, ports.TurnRecord{RunID: "r1", Seq: 1}); err != nil {
			return err
		}
		return runs.Progress(txCtx, "r1", 1)
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	run, _ := runs.Get(ctx, "r1")
	if run.Turns != 1 {
		t.Fatalf("expected 1 turn, got %d", run.Turns)
	}
}

func TestTxManager_NestedCallJoinsOuter(t *testing.T) {
	tx := NewTxManager(NewStore())
	calls := 0
	err := tx.RunInTx(context.Background(), func(outer context.Context) error {
		calls++
		return tx.RunInTx(outer, func(context.Context) error {
			calls++
			return nil
		})
	})
	if err != nil || calls != 2 {
		t.Fatalf("nested tx: calls=%d err=%v", calls, err)
	}
}
