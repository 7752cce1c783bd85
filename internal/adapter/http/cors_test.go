package httpadapter

import (
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

func TestApplyCORSHeaders(t *testing.T) {
	ctx := &app.RequestContext{}
	applyCORSHeaders(ctx)

	if got, want := string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")), "*"; got != want {
		t.Fatalf("allow-origin mismatch: got=%q want=%q", got, want)
	}
	if got, want := string(ctx.Response.Header.Peek("Access-Control-Allow-Methods")), corsAllowMethods; got != want {
		t.Fatalf("allow-methods mismatch: got=%q want=%q", got, want)
	}
	if got, want := string(ctx.Response.Header.Peek("Access-Control-Allow-Headers")), corsAllowHeaders; got != want {
		t.Fatalf("allow-headers mismatch: got=%q want=%q", got, want)
	}
}

func TestCORSMiddleware_AnswersPreflight(t *testing.T) {
	f := newFixture(false)

	w := ut.PerformRequest(f.srv.Engine, consts.MethodOptions, "/api/bot/decide", nil)
	resp := w.Result()
	if resp.StatusCode() != consts.StatusNoContent {
		t.Fatalf("preflight status=%d want 204", resp.StatusCode())
	}
	if got := string(resp.Header.Peek("Access-Control-Allow-Headers")); got != corsAllowHeaders {
		t.Fatalf("allow-headers=%q want %q", got, corsAllowHeaders)
	}
}

func TestCORSMiddleware_DecoratesResponses(t *testing.T) {
	w := ut.PerformRequest(newFixture(false).srv.Engine, consts.MethodGet, "/healthz", nil)
	if got := string(w.Result().Header.Peek("Access-Control-Allow-Origin")); got != "*" {
		t.Fatalf("allow-origin=%q want *", got)
	}
}
