package gameclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blitzbot/internal/app/ports"
	"blitzbot/internal/domain/board"
)

var _ ports.GameClient = (*Client)(nil)

type captured struct {
	path   string
	query  string
	form   map[string]string
	method string
}

func newServer(t *testing.T, status int, body string, delay time.Duration) (*httptest.Server, chan captured) {
	t.Helper()
	reqs := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		got := captured{
			path:   r.URL.Path,
			query:  r.URL.Query().Get("gameId"),
			method: r.Method,
			form:   map[string]string{},
		}
		for k := range r.PostForm {
			got.form[k] = r.PostForm.Get(k)
		}
		select {
		case reqs <- got:
		default:
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, reqs
}

func mustClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestStart_Training(t *testing.T) {
	srv, reqs := newServer(t, http.StatusOK, `{"game":{"finished":false}}`, 0)
	c := mustClient(t, Config{BaseURL: srv.URL + "/"})

	raw, err := c.Start(context.Background(), ports.SessionRequest{Key: "secret", Mode: "training", Map: "m1"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if string(raw) != `{"game":{"finished":false}}` {
		t.Fatalf("unexpected body %s", raw)
	}
	got := <-reqs
	if got.method != http.MethodPost || got.path != "/api/training" {
		t.Fatalf("unexpected request %s %s", got.method, got.path)
	}
	if got.form["key"] != "secret" || got.form["map"] != "m1" {
		t.Fatalf("unexpected form %+v", got.form)
	}
}

func TestStart_Competition(t *testing.T) {
	srv, reqs := newServer(t, http.StatusOK, `{}`, 0)
	c := mustClient(t, Config{BaseURL: srv.URL})

	if _, err := c.Start(context.Background(), ports.SessionRequest{Key: "k", Mode: "competition", GameID: "arena 7"}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	got := <-reqs
	if got.path != "/api/arena" || got.query != "arena 7" || got.form["key"] != "k" {
		t.Fatalf("unexpected request path=%s gameId=%q form=%+v", got.path, got.query, got.form)
	}
	if _, ok := got.form["map"]; ok {
		t.Fatalf("arena start must not send a map")
	}
}

func TestMove_PostsDirection(t *testing.T) {
	srv, reqs := newServer(t, http.StatusOK, `{"game":{"finished":true}}`, 0)
	c := mustClient(t, Config{BaseURL: "http://unused"})

	raw, err := c.Move(context.Background(), srv.URL+"/api/g1/h1/play", board.South)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	got := <-reqs
	if got.path != "/api/g1/h1/play" || got.form["dir"] != "South" {
		t.Fatalf("unexpected request path=%s form=%+v", got.path, got.form)
	}
	if len(raw) == 0 {
		t.Fatalf("empty body")
	}
}

func TestMove_NonOKBecomesFinished(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadRequest, "Vous avez perdu", 0)
	c := mustClient(t, Config{BaseURL: srv.URL})

	raw, err := c.Move(context.Background(), srv.URL+"/play", board.North)
	if !errors.Is(err, ports.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if string(raw) != string(FinishedState) {
		t.Fatalf("expected finished state, got %s", raw)
	}
}

func TestMove_TimeoutBecomesFinished(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`, 300*time.Millisecond)
	c := mustClient(t, Config{BaseURL: srv.URL, MoveTimeout: 50 * time.Millisecond})

	raw, err := c.Move(context.Background(), srv.URL+"/play", board.Stay)
	if !errors.Is(err, ports.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if string(raw) != string(FinishedState) {
		t.Fatalf("expected finished state, got %s", raw)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := mustClient(t, Config{})
	if c.cfg.BaseURL != DefaultBaseURL || c.cfg.StartTimeout != DefaultStartTimeout || c.cfg.MoveTimeout != DefaultMoveTimeout {
		t.Fatalf("unexpected defaults %+v", c.cfg)
	}
}
