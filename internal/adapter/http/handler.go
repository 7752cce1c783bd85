package httpadapter

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"blitzbot/internal/app/ports"
	"blitzbot/internal/app/replay"
	"blitzbot/internal/app/turn"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const runIDHeader = "X-Run-ID"

var (
	ErrEmptySnapshot = errors.New("empty snapshot body")
	ErrInvalidSeq    = errors.New("invalid seq")
)

type decider interface {
	Execute(ctx context.Context, req turn.Request) (turn.Response, error)
}

type replayer interface {
	Execute(ctx context.Context, req replay.Request) (replay.Response, error)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type Handler struct {
	DecideUC decider
	ReplayUC replayer
	KPI      kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	bot := s.Group("/api/bot")
	bot.POST("/decide", h.decide)
	bot.GET("/runs/:run_id", h.replay)

	s.GET("/ops/kpi", h.kpi)
	s.GET("/healthz", h.healthz)
}

// decide accepts a raw state document and answers with the next move. A
// journal run can be named with the X-Run-ID header and the seq query.
func (h Handler) decide(c context.Context, ctx *app.RequestContext) {
	body := ctx.Request.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		writeError(ctx, ErrEmptySnapshot)
		return
	}
	runID := strings.TrimSpace(string(ctx.GetHeader(runIDHeader)))
	seq := 0
	if raw := ctx.Query("seq"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(ctx, ErrInvalidSeq)
			return
		}
		seq = n
	}

	resp, err := h.DecideUC.Execute(c, turn.Request{RunID: runID, Seq: seq, Raw: append([]byte(nil), body...)})
	if err != nil {
		hlog.CtxErrorf(c, "decide failed run=%s err=%v", runID, err)
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	limit, err := queryInt(ctx, "limit")
	if err != nil {
		writeError(ctx, replay.ErrInvalidRequest)
		return
	}
	occurredFrom, _ := strconv.ParseInt(ctx.Query("occurred_from"), 10, 64)
	occurredTo, _ := strconv.ParseInt(ctx.Query("occurred_to"), 10, 64)

	resp, err := h.ReplayUC.Execute(c, replay.Request{
		RunID:        ctx.Param("run_id"),
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func (h Handler) healthz(_ context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(ctx *app.RequestContext, key string) (int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrEmptySnapshot):
		writeErrorBody(ctx, consts.StatusBadRequest, "empty_snapshot", err.Error())
	case errors.Is(err, ErrInvalidSeq),
		errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "cancelled", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
