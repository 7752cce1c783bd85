// Package gameclient speaks the game server's form-encoded HTTP API.
package gameclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"blitzbot/internal/app/ports"
	"blitzbot/internal/domain/board"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const (
	DefaultBaseURL      = "http://game.blitz.codes:8080"
	DefaultStartTimeout = 10 * time.Minute
	DefaultMoveTimeout  = 15 * time.Second
)

// FinishedState is what callers see when the server cannot be reached.
var FinishedState = []byte(`{"game":{"finished":true}}`)

type Config struct {
	BaseURL      string
	StartTimeout time.Duration
	MoveTimeout  time.Duration
	DialTimeout  time.Duration
}

type Client struct {
	cfg Config
	hc  *client.Client
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.StartTimeout <= 0 {
		cfg.StartTimeout = DefaultStartTimeout
	}
	if cfg.MoveTimeout <= 0 {
		cfg.MoveTimeout = DefaultMoveTimeout
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	hc, err := client.NewClient(client.WithDialTimeout(cfg.DialTimeout))
	if err != nil {
		return nil, fmt.Errorf("new hertz client: %w", err)
	}
	return &Client{cfg: cfg, hc: hc}, nil
}

func (c *Client) Start(ctx context.Context, req ports.SessionRequest) ([]byte, error) {
	form := map[string]string{"key": req.Key}
	var endpoint string
	switch req.Mode {
	case "competition":
		endpoint = c.cfg.BaseURL + "/api/arena?gameId=" + url.QueryEscape(req.GameID)
	default:
		endpoint = c.cfg.BaseURL + "/api/training"
		if req.Map != "" {
			form["map"] = req.Map
		}
	}
	return c.post(ctx, endpoint, form, c.cfg.StartTimeout)
}

func (c *Client) Move(ctx context.Context, playURL string, dir board.Direction) ([]byte, error) {
	return c.post(ctx, playURL, map[string]string{"dir": dir.String()}, c.cfg.MoveTimeout)
}

func (c *Client) post(ctx context.Context, uri string, form map[string]string, timeout time.Duration) ([]byte, error) {
	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer protocol.ReleaseRequest(req)
	defer protocol.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.SetMethod(consts.MethodPost)
	req.SetFormData(form)

	if err := c.hc.DoTimeout(ctx, req, resp, timeout); err != nil {
		return FinishedState, fmt.Errorf("%w: post %s: %v", ports.ErrTransport, redact(uri), err)
	}
	if code := resp.StatusCode(); code != consts.StatusOK {
		return FinishedState, fmt.Errorf("%w: post %s: status %d: %s", ports.ErrTransport, redact(uri), code, snippet(resp.Body()))
	}
	return append([]byte(nil), resp.Body()...), nil
}

func redact(uri string) string {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		return uri[:i]
	}
	return uri
}

func snippet(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
