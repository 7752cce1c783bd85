package play

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"blitzbot/internal/adapter/schema"
	"blitzbot/internal/app/policy"
	"blitzbot/internal/app/ports"
	"blitzbot/internal/app/turn"
	"blitzbot/internal/domain/board"
)

func snapshot(turnNo int) []byte {
	return []byte(fmt.Sprintf(`{
  "game": {"id": "g1", "turn": %d, "maxTurns": 100, "finished": false, "heroes": [], "customers": [],
    "board": {"size": 3, "tiles": "        @1F-      "}},
  "hero": {"id": 1, "name": "me", "pos": {"x": 1, "y": 1}, "life": 90},
  "playUrl": "http://game/play/g1",
  "viewUrl": "http://game/view/g1"
}`, turnNo))
}

// unknownTileSnapshot is well-formed JSON whose board carries a tile code the
// schema rejects.
func unknownTileSnapshot(turnNo int) []byte {
	return []byte(fmt.Sprintf(`{
  "game": {"id": "g1", "turn": %d, "maxTurns": 100, "finished": false, "heroes": [], "customers": [],
    "board": {"size": 3, "tiles": "        @1??      "}},
  "hero": {"id": 1, "name": "me", "pos": {"x": 1, "y": 1}, "life": 90},
  "playUrl": "http://game/play/g1",
  "viewUrl": "http://game/view/g1"
}`, turnNo))
}

var finishedDoc = []byte(`{"game":{"finished":true}}`)

func newRunner(client *fakeClient, runs *fakeRuns) Runner {
	return Runner{
		Client: client,
		Turn: turn.UseCase{
			Selector: policy.Selector{Tuning: policy.DefaultTuning(), Rand: rand.New(rand.NewSource(1))},
			Rand:     rand.New(rand.NewSource(1)),
		},
		Runs:     runs,
		Now:      func() time.Time { return time.Unix(1700000000, 0) },
		NewRunID: func() string { return "run-fixed" },
	}
}

func TestRun_RejectsBadInput(t *testing.T) {
	r := newRunner(&fakeClient{}, &fakeRuns{})
	if _, err := r.Run(context.Background(), StartRequest{Key: "k", Mode: "arena"}); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	if _, err := r.Run(context.Background(), StartRequest{Key: " ", Mode: ModeTraining}); !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}

func TestRun_PlaysUntilFinished(t *testing.T) {
	client := &fakeClient{start: snapshot(0), moves: [][]byte{snapshot(1), snapshot(2), finishedDoc}}
	runs := &fakeRuns{}

	sum, err := newRunner(client, runs).Run(context.Background(), StartRequest{Key: "secret", Mode: ModeTraining, Map: "m1"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.RunID != "run-fixed" || sum.Turns != 3 || sum.Status != ports.RunStatusFinished || sum.Reason != "game over" {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if sum.ViewURL != "http://game/view/g1" {
		t.Fatalf("view url=%q", sum.ViewURL)
	}
	if client.session.Key != "secret" || client.session.Map != "m1" {
		t.Fatalf("unexpected session request: %+v", client.session)
	}
	if len(client.sent) != 3 {
		t.Fatalf("expected 3 moves, got %d", len(client.sent))
	}
	for _, d := range client.sent {
		if d != board.East {
			t.Fatalf("expected East toward the fries, got %v", d)
		}
	}
	if client.urls[0] != "http://game/play/g1" {
		t.Fatalf("unexpected play url %q", client.urls[0])
	}
	if runs.started.RunID != "run-fixed" || runs.started.Status != ports.RunStatusRunning || runs.started.ViewURL == "" {
		t.Fatalf("unexpected run start: %+v", runs.started)
	}
	if runs.finishedStatus != ports.RunStatusFinished {
		t.Fatalf("unexpected run finish status: %s", runs.finishedStatus)
	}
}

func TestRun_TransportFailureEndsCleanly(t *testing.T) {
	client := &fakeClient{
		start:   snapshot(0),
		moves:   [][]byte{finishedDoc},
		moveErr: fmt.Errorf("%w: timeout", ports.ErrTransport),
	}

	sum, err := newRunner(client, &fakeRuns{}).Run(context.Background(), StartRequest{Key: "k", Mode: ModeCompetition, GameID: "g1"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Status != ports.RunStatusFinished || sum.Reason != "transport failure" || sum.Turns != 1 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if client.session.Mode != ModeCompetition || client.session.GameID != "g1" {
		t.Fatalf("unexpected session request: %+v", client.session)
	}
}

func TestRun_StopsAtMaxTurns(t *testing.T) {
	client := &fakeClient{start: snapshot(0), repeat: snapshot(1)}
	r := newRunner(client, &fakeRuns{})
	r.MaxTurns = 3

	sum, err := r.Run(context.Background(), StartRequest{Key: "k", Mode: ModeTraining})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Turns != 3 || sum.Status != ports.RunStatusAborted {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestRun_StartFailure(t *testing.T) {
	client := &fakeClient{startErr: fmt.Errorf("%w: refused", ports.ErrTransport)}
	runs := &fakeRuns{}

	if _, err := newRunner(client, runs).Run(context.Background(), StartRequest{Key: "k", Mode: ModeTraining}); !errors.Is(err, ports.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if runs.started.RunID != "" {
		t.Fatalf("run should not be recorded when the session never started")
	}
}

func TestRun_CancelledMidGame(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &fakeClient{start: snapshot(0), repeat: snapshot(1)}
	runs := &fakeRuns{}
	r := newRunner(client, runs)
	r.Turn = cancelAfter{n: 2, cancel: cancel, next: r.Turn}

	sum, err := r.Run(ctx, StartRequest{Key: "k", Mode: ModeTraining})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if sum.Status != ports.RunStatusAborted || sum.Turns != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if runs.finishedStatus != ports.RunStatusAborted {
		t.Fatalf("aborted run should still be closed, got %q", runs.finishedStatus)
	}
}

type cancelAfter struct {
	n      int
	cancel context.CancelFunc
	next   Decider
}

func (c cancelAfter) Execute(ctx context.Context, req turn.Request) (turn.Response, error) {
	resp, err := c.next.Execute(ctx, req)
	if req.Seq == c.n {
		c.cancel()
	}
	return resp, err
}

type fakeClient struct {
	start    []byte
	startErr error
	moves    [][]byte
	repeat   []byte
	moveErr  error

	session ports.SessionRequest
	sent    []board.Direction
	urls    []string
}

func (c *fakeClient) Start(_ context.Context, req ports.SessionRequest) ([]byte, error) {
	c.session = req
	if c.startErr != nil {
		return finishedDoc, c.startErr
	}
	return c.start, nil
}

func (c *fakeClient) Move(_ context.Context, playURL string, dir board.Direction) ([]byte, error) {
	c.sent = append(c.sent, dir)
	c.urls = append(c.urls, playURL)
	if c.repeat != nil {
		return c.repeat, nil
	}
	next := c.moves[0]
	c.moves = c.moves[1:]
	return next, c.moveErr
}

type fakeRuns struct {
	started        ports.RunRecord
	finishedStatus ports.RunStatus
}

func (r *fakeRuns) Start(_ context.Context, run ports.RunRecord) error {
	r.started = run
	return nil
}

func (r *fakeRuns) Progress(context.Context, string, int) error { return nil }

func (r *fakeRuns) Finish(_ context.Context, _ string, status ports.RunStatus, _ string, _ time.Time) error {
	r.finishedStatus = status
	return nil
}

func (r *fakeRuns) Get(context.Context, string) (ports.RunRecord, error) {
	return r.started, nil
}

var (
	_ ports.GameClient    = (*fakeClient)(nil)
	_ ports.RunRepository = (*fakeRuns)(nil)
)

func TestRun_BadTurnMidGameKeepsPlaying(t *testing.T) {
	validator, err := schema.NewSnapshotValidator()
	if err != nil {
		t.Fatalf("compile schema: %v", err)
	}
	cases := []struct {
		name string
		bad  []byte
	}{
		{name: "unknown tile", bad: unknownTileSnapshot(1)},
		{name: "truncated json", bad: []byte(`{"game":`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeClient{start: snapshot(0), moves: [][]byte{tc.bad, snapshot(2), finishedDoc}}
			r := newRunner(client, &fakeRuns{})
			uc := r.Turn.(turn.UseCase)
			uc.Validator = validator
			r.Turn = uc

			sum, err := r.Run(context.Background(), StartRequest{Key: "k", Mode: ModeTraining})
			if err != nil {
				t.Fatalf("Run error: %v", err)
			}
			if sum.Status != ports.RunStatusFinished || sum.Turns != 3 || sum.Fallbacks != 1 {
				t.Fatalf("unexpected summary: %+v", sum)
			}
			if len(client.sent) != 3 {
				t.Fatalf("expected 3 moves, got %d", len(client.sent))
			}
			for i, u := range client.urls {
				if u != "http://game/play/g1" {
					t.Fatalf("move %d posted to %q", i, u)
				}
			}
		})
	}
}
