// Package policy picks, once per turn, the cell the hero should head for.
package policy

import (
	"math/rand"
	"sync"

	"blitzbot/internal/domain/board"
	"blitzbot/internal/domain/game"
	"blitzbot/internal/domain/pathfind"
)

type Rule string

const (
	RuleAdjacentHeal   Rule = "adjacent_heal"
	RuleCriticalEscape Rule = "critical_escape"
	RuleAdjacentPickup Rule = "adjacent_pickup"
	RuleCustomer       Rule = "customer"
	RuleResource       Rule = "resource"
	RuleFallback       Rule = "fallback"
)

// Rules lists every rule in precedence order.
var Rules = []Rule{
	RuleAdjacentHeal,
	RuleCriticalEscape,
	RuleAdjacentPickup,
	RuleCustomer,
	RuleResource,
	RuleFallback,
}

type Decision struct {
	Rule       Rule
	Target     board.Position
	HasTarget  bool
	Fallback   board.Direction
	CustomerID int
}

func target(rule Rule, p board.Position) Decision {
	return Decision{Rule: rule, Target: p, HasTarget: true, CustomerID: board.NoID}
}

type Selector struct {
	Tuning Tuning
	Rand   *rand.Rand
}

func (s Selector) HazardCost() pathfind.HazardCostFunc {
	return pathfind.ConstantHazardCost(s.Tuning.HazardCost)
}

// Select walks the rules in precedence order and returns the first match.
func (s Selector) Select(g *game.Game) Decision {
	me := g.Me

	if me.Life <= s.Tuning.MinLifeBeforeHeal && me.Calories >= s.Tuning.HealPrice {
		for _, p := range g.Board.Adjacent(me.Pos) {
			if g.IsTavern(p) {
				return target(RuleAdjacentHeal, p)
			}
		}
	}

	if me.Life < s.Tuning.CriticalLife {
		if p, ok := nearest(me.Pos, g.Taverns); ok {
			return target(RuleCriticalEscape, p)
		}
	}

	for _, p := range g.Board.Adjacent(me.Pos) {
		if g.FreeResourceAt(p) {
			return target(RuleAdjacentPickup, p)
		}
	}

	if d, ok := s.customerTarget(g); ok {
		return d
	}
	return s.fallback()
}

// Move turns the selected target into the first step of the best route.
func (s Selector) Move(g *game.Game) (board.Direction, Decision) {
	d := s.Select(g)
	if !d.HasTarget {
		return d.Fallback, d
	}
	return pathfind.NextStep(g.Board, g.Me.Pos, d.Target, s.HazardCost()), d
}

func (s Selector) customerTarget(g *game.Game) (Decision, bool) {
	c, ok := s.easiestCustomer(g)
	if !ok {
		return Decision{}, false
	}
	if c.SatisfiedBy(g.Me) {
		d := target(RuleCustomer, g.CustomerLocs[c.ID])
		d.CustomerID = c.ID
		return d, true
	}
	kind, _ := c.Lacking(g.Me)
	p, ok := nearestFree(g, kind)
	if !ok {
		return Decision{}, false
	}
	d := target(RuleResource, p)
	d.CustomerID = c.ID
	return d, true
}

type scored struct {
	score float64
	ok    bool
}

// easiestCustomer scores every reachable customer; one pathfinder call per
// customer, run concurrently since the calls share no mutable state.
func (s Selector) easiestCustomer(g *game.Game) (game.Customer, bool) {
	hazard := s.HazardCost()
	scores := make([]scored, len(g.Customers))

	var wg sync.WaitGroup
	for i, c := range g.Customers {
		loc, ok := g.CustomerLocs[c.ID]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(i int, c game.Customer, loc board.Position) {
			defer wg.Done()
			path, ok := pathfind.FindPath(g.Board, g.Me.Pos, loc, hazard)
			if !ok {
				return
			}
			scores[i] = scored{score: s.score(c, g.Me, path.Steps()), ok: true}
		}(i, c, loc)
	}
	wg.Wait()

	best := -1
	for i, sc := range scores {
		if !sc.ok {
			continue
		}
		if best < 0 || sc.score < scores[best].score {
			best = i
		}
	}
	if best < 0 {
		return game.Customer{}, false
	}
	return g.Customers[best], true
}

func (s Selector) score(c game.Customer, me game.Hero, steps int) float64 {
	score := float64(c.Unmet(me)) + s.Tuning.StepCost*float64(steps)
	if c.SatisfiedBy(me) && steps > s.Tuning.DiscountNear {
		score *= s.Tuning.discount(steps)
	}
	return score
}

func (s Selector) fallback() Decision {
	d := Decision{Rule: RuleFallback, Fallback: board.Stay, CustomerID: board.NoID}
	if s.Rand != nil {
		d.Fallback = board.All[s.Rand.Intn(len(board.All))]
	}
	return d
}

// nearest returns the first cell with the smallest Manhattan distance.
func nearest(from board.Position, cells []board.Position) (board.Position, bool) {
	best, found, bestDist := board.Position{}, false, 0
	for _, p := range cells {
		d := board.Manhattan(from, p)
		if !found || d < bestDist {
			best, found, bestDist = p, true, d
		}
	}
	return best, found
}

// nearestFree finds the closest cell of the given kind not owned by the
// hero. Ties resolve to the first cell in row-major order.
func nearestFree(g *game.Game, kind game.Resource) (board.Position, bool) {
	best, found, bestDist := board.Position{}, false, 0
	for p, owner := range g.ResourceLocs(kind) {
		if owner == g.Me.ID {
			continue
		}
		d := board.Manhattan(g.Me.Pos, p)
		if !found || d < bestDist || (d == bestDist && rowMajorBefore(p, best)) {
			best, found, bestDist = p, true, d
		}
	}
	return best, found
}

func rowMajorBefore(a, b board.Position) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}
