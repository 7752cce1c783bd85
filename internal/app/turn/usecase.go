// Package turn turns one raw state document into one move. It never fails a
// turn: anything that goes wrong degrades to a random legal direction.
package turn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"blitzbot/internal/app/policy"
	"blitzbot/internal/app/ports"
	"blitzbot/internal/domain/board"
	"blitzbot/internal/domain/game"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

var (
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrDecodeSnapshot  = errors.New("decode snapshot")
	ErrSelectionPanic  = errors.New("selection panic")
)

type UseCase struct {
	Selector  policy.Selector
	Validator ports.SnapshotValidator
	Runs      ports.RunRepository
	Turns     ports.TurnRepository
	Tx        ports.TxManager
	Metrics   ports.DecisionMetrics
	Trace     ports.TraceWriter
	Now       func() time.Time
	Rand      *rand.Rand
}

type outcome struct {
	resp Response
	me   game.Hero
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	out, err := u.decide(req.Raw)
	switch {
	case err != nil:
		reason := fallbackReason(err)
		out.resp.Direction = u.randomDirection()
		out.resp.Rule = policy.RuleFallback
		out.resp.Fallback = true
		out.resp.Diagnostic = err.Error()
		hlog.CtxWarnf(ctx, "turn fallback run=%s seq=%d reason=%s err=%v", req.RunID, req.Seq, reason, err)
		if u.Metrics != nil {
			u.Metrics.RecordFallback(reason)
			u.Metrics.RecordFailure()
		}
	case out.resp.Finished:
		hlog.CtxInfof(ctx, "game finished run=%s seq=%d", req.RunID, req.Seq)
		return out.resp, nil
	default:
		if u.Metrics != nil {
			u.Metrics.RecordDecision(string(out.resp.Rule))
		}
	}
	hlog.CtxInfof(ctx, "Going to %s", out.resp.Direction)

	at := nowFn()
	u.journal(ctx, req, out, at)
	u.trace(ctx, req, out, at)
	return out.resp, nil
}

func (u UseCase) decide(raw []byte) (out outcome, err error) {
	h := peekHeader(raw)
	out.resp.GameTurn, out.resp.PlayURL, out.resp.ViewURL = h.Game.Turn, h.PlayURL, h.ViewURL
	if u.Validator != nil {
		if err := u.Validator.Validate(raw); err != nil {
			return out, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
	}
	var state game.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return out, fmt.Errorf("%w: %v", ErrDecodeSnapshot, err)
	}
	out.resp.GameTurn = state.Game.Turn
	out.resp.PlayURL = state.PlayURL
	out.resp.ViewURL = state.ViewURL
	if state.Game.Finished {
		out.resp.Finished = true
		out.resp.Direction = board.Stay
		return out, nil
	}

	g, err := game.New(state)
	if err != nil {
		return out, err
	}
	out.me = g.Me

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSelectionPanic, r)
		}
	}()
	dir, d := u.Selector.Move(g)
	out.resp.Direction = dir
	out.resp.Rule = d.Rule
	out.resp.Fallback = d.Rule == policy.RuleFallback
	if d.HasTarget {
		t := d.Target
		out.resp.Target = &t
	}
	if d.CustomerID != board.NoID {
		out.resp.CustomerID = d.CustomerID
	}
	return out, nil
}

// header is what the loop needs to send a move even when the rest of the
// document is unusable.
type header struct {
	Game struct {
		Turn int `json:"turn"`
	} `json:"game"`
	PlayURL string `json:"playUrl"`
	ViewURL string `json:"viewUrl"`
}

// peekHeader decodes leniently: mistyped fields are skipped and a syntax
// error leaves the header empty.
func peekHeader(raw []byte) header {
	var h header
	_ = json.Unmarshal(raw, &h)
	return h
}

func (u UseCase) randomDirection() board.Direction {
	if u.Rand == nil {
		return board.Stay
	}
	return board.All[u.Rand.Intn(len(board.All))]
}

// journal is best effort: a failed write is logged and the move still goes out.
func (u UseCase) journal(ctx context.Context, req Request, out outcome, at time.Time) {
	if req.RunID == "" || u.Turns == nil {
		return
	}
	rec := ports.TurnRecord{
		RunID:      req.RunID,
		Seq:        req.Seq,
		GameTurn:   out.resp.GameTurn,
		Direction:  out.resp.Direction,
		Rule:       string(out.resp.Rule),
		Fallback:   out.resp.Fallback,
		Life:       out.me.Life,
		Calories:   out.me.Calories,
		Diagnostic: out.resp.Diagnostic,
		DecidedAt:  at,
	}
	if out.resp.Target != nil {
		rec.Target = *out.resp.Target
		rec.HasTarget = true
	}

	write := func(txCtx context.Context) error {
		if err := u.Turns.Append(txCtx, rec); err != nil {
			return fmt.Errorf("append turn: %w", err)
		}
		if u.Runs != nil {
			if err := u.Runs.Progress(txCtx, req.RunID, req.Seq); err != nil {
				return fmt.Errorf("progress run: %w", err)
			}
		}
		return nil
	}
	var err error
	if u.Tx != nil {
		err = u.Tx.RunInTx(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		hlog.CtxErrorf(ctx, "journal turn failed run=%s seq=%d err=%v", req.RunID, req.Seq, err)
	}
}

func (u UseCase) trace(ctx context.Context, req Request, out outcome, at time.Time) {
	if u.Trace == nil {
		return
	}
	entry := traceEntry{
		RunID:      req.RunID,
		Seq:        req.Seq,
		GameTurn:   out.resp.GameTurn,
		Direction:  out.resp.Direction,
		Rule:       out.resp.Rule,
		Target:     out.resp.Target,
		Fallback:   out.resp.Fallback,
		Life:       out.me.Life,
		Calories:   out.me.Calories,
		Diagnostic: out.resp.Diagnostic,
		DecidedAt:  at.UnixMilli(),
	}
	if err := u.Trace.Write(entry); err != nil {
		hlog.CtxErrorf(ctx, "trace turn failed run=%s seq=%d err=%v", req.RunID, req.Seq, err)
	}
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSnapshot):
		return "schema"
	case errors.Is(err, ErrDecodeSnapshot):
		return "decode"
	case errors.Is(err, board.ErrMalformedTile):
		return "board"
	case errors.Is(err, ErrSelectionPanic):
		return "panic"
	default:
		return "unknown"
	}
}
