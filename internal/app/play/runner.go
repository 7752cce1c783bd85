// Package play drives one game session from start to the finished state.
package play

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"blitzbot/internal/app/ports"
	"blitzbot/internal/app/turn"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
)

const (
	ModeTraining    = "training"
	ModeCompetition = "competition"
)

var (
	ErrInvalidMode = errors.New("invalid game mode")
	ErrMissingKey  = errors.New("missing api key")
)

type Decider interface {
	Execute(ctx context.Context, req turn.Request) (turn.Response, error)
}

type StartRequest struct {
	Key    string
	Mode   string
	GameID string
	Map    string
}

type Summary struct {
	RunID     string
	Mode      string
	GameID    string
	ViewURL   string
	Turns     int
	Fallbacks int
	Status    ports.RunStatus
	Reason    string
}

type Runner struct {
	Client   ports.GameClient
	Turn     Decider
	Runs     ports.RunRepository
	MaxTurns int
	Now      func() time.Time
	NewRunID func() string
}

func (r Runner) Run(ctx context.Context, req StartRequest) (Summary, error) {
	req.Key = strings.TrimSpace(req.Key)
	req.Mode = strings.TrimSpace(req.Mode)
	req.GameID = strings.TrimSpace(req.GameID)
	if req.Mode != ModeTraining && req.Mode != ModeCompetition {
		return Summary{}, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}
	if req.Key == "" {
		return Summary{}, ErrMissingKey
	}
	nowFn := r.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	newID := r.NewRunID
	if newID == nil {
		newID = uuid.NewString
	}

	sum := Summary{RunID: newID(), Mode: req.Mode, GameID: req.GameID}
	if req.Mode == ModeCompetition {
		hlog.CtxInfof(ctx, "connected and waiting for other players to join game=%s", req.GameID)
	}
	raw, err := r.Client.Start(ctx, ports.SessionRequest{Key: req.Key, Mode: req.Mode, GameID: req.GameID, Map: req.Map})
	if err != nil {
		return sum, fmt.Errorf("start session: %w", err)
	}
	sum.ViewURL = viewURL(raw)
	hlog.CtxInfof(ctx, "playing at %s run=%s", sum.ViewURL, sum.RunID)
	r.recordStart(ctx, sum, nowFn())

	// playURL keeps the last known move endpoint so a turn whose document
	// could not be read still sends its fallback move.
	var playURL string
	var runErr error
	for seq := 1; ; seq++ {
		if err := ctx.Err(); err != nil {
			sum.Status, sum.Reason, runErr = ports.RunStatusAborted, "cancelled", err
			break
		}
		if r.MaxTurns > 0 && seq > r.MaxTurns {
			sum.Status, sum.Reason = ports.RunStatusAborted, "max turns reached"
			break
		}
		resp, err := r.Turn.Execute(ctx, turn.Request{RunID: sum.RunID, Seq: seq, Raw: raw})
		if err != nil {
			sum.Status, sum.Reason, runErr = ports.RunStatusAborted, "cancelled", err
			break
		}
		if resp.Finished {
			sum.Status = ports.RunStatusFinished
			if sum.Reason == "" {
				sum.Reason = "game over"
			}
			break
		}
		if resp.PlayURL != "" {
			playURL = resp.PlayURL
		}
		if playURL == "" {
			sum.Status, sum.Reason = ports.RunStatusAborted, "missing play url"
			break
		}
		sum.Turns = seq
		if resp.Fallback {
			sum.Fallbacks++
		}
		raw, err = r.Client.Move(ctx, playURL, resp.Direction)
		if err != nil {
			hlog.CtxWarnf(ctx, "move failed run=%s seq=%d err=%v", sum.RunID, seq, err)
			sum.Reason = "transport failure"
		}
	}

	r.recordFinish(ctx, sum, nowFn())
	hlog.CtxInfof(ctx, "game finished run=%s turns=%d fallbacks=%d status=%s reason=%s",
		sum.RunID, sum.Turns, sum.Fallbacks, sum.Status, sum.Reason)
	return sum, runErr
}

func (r Runner) recordStart(ctx context.Context, sum Summary, at time.Time) {
	if r.Runs == nil {
		return
	}
	err := r.Runs.Start(ctx, ports.RunRecord{
		RunID:     sum.RunID,
		Mode:      sum.Mode,
		GameID:    sum.GameID,
		ViewURL:   sum.ViewURL,
		Status:    ports.RunStatusRunning,
		StartedAt: at,
	})
	if err != nil {
		hlog.CtxErrorf(ctx, "record run start failed run=%s err=%v", sum.RunID, err)
	}
}

func (r Runner) recordFinish(ctx context.Context, sum Summary, at time.Time) {
	if r.Runs == nil {
		return
	}
	// The caller's context may already be cancelled; the journal still
	// needs the terminal row.
	if err := r.Runs.Finish(context.WithoutCancel(ctx), sum.RunID, sum.Status, sum.Reason, at); err != nil {
		hlog.CtxErrorf(ctx, "record run finish failed run=%s err=%v", sum.RunID, err)
	}
}

func viewURL(raw []byte) string {
	var head struct {
		ViewURL string `json:"viewUrl"`
	}
	_ = json.Unmarshal(raw, &head)
	return head.ViewURL
}
