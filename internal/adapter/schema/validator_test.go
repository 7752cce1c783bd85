package schema

import (
	"testing"

	"blitzbot/internal/app/ports"
)

var _ ports.SnapshotValidator = (*Validator)(nil)

func mustValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewSnapshotValidator()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return v
}

func TestValidate_AcceptsLiveAndFinishedStates(t *testing.T) {
	v := mustValidator(t)
	docs := map[string]string{
		"live": `{
		  "game": {"id": "g", "turn": 1, "maxTurns": 10, "finished": false,
		    "heroes": [{"id": 1, "pos": {"x": 0, "y": 0}}],
		    "customers": [{"id": 1, "burger": 1, "frenchFries": 0, "fulfilledOrders": 0}],
		    "board": {"size": 2, "tiles": "@1F-[]C1"}},
		  "hero": {"id": 1, "name": "me", "pos": {"x": 0, "y": 0}, "life": 100, "calories": 0},
		  "playUrl": "http://game/play", "viewUrl": "http://game/view"
		}`,
		"finished": `{"game":{"finished":true}}`,
	}
	for name, doc := range docs {
		if err := v.Validate([]byte(doc)); err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	v := mustValidator(t)
	cases := map[string]string{
		"not json":         `{"game":`,
		"missing game":     `{"hero":{"id":1,"pos":{"x":0,"y":0}}}`,
		"live no board":    `{"game":{"finished":false},"hero":{"id":1,"pos":{"x":0,"y":0}},"playUrl":"u"}`,
		"live no hero":     `{"game":{"finished":false,"board":{"size":1,"tiles":"  "}},"playUrl":"u"}`,
		"bad tile code":    `{"game":{"finished":false,"board":{"size":1,"tiles":"??"}},"hero":{"id":1,"pos":{"x":0,"y":0}},"playUrl":"u"}`,
		"negative pos":     `{"game":{"finished":false,"board":{"size":1,"tiles":"  "}},"hero":{"id":1,"pos":{"x":-1,"y":0}},"playUrl":"u"}`,
		"finished as text": `{"game":{"finished":"yes"}}`,
	}
	for name, doc := range cases {
		if err := v.Validate([]byte(doc)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
