// Package pathfind finds minimum-cost routes over the 4-connected board grid.
package pathfind

import (
	"math"

	"blitzbot/internal/domain/board"

	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"
)

type Grid interface {
	At(p board.Position) board.Tile
	InBounds(p board.Position) bool
	Passable(p board.Position) bool
	IsHazard(p board.Position) bool
}

// HazardCostFunc prices entering a hazard tile. A nil func prices hazards
// like any other cell, and results below 1 are raised to 1 so the distance
// heuristic never overestimates.
type HazardCostFunc func(board.Tile) int

func ConstantHazardCost(n int) HazardCostFunc {
	return func(board.Tile) int { return n }
}

// Path lists cells from the target back to the start.
type Path []board.Position

// Steps is the number of moves the path takes.
func (p Path) Steps() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Cost sums the price of every entered cell, i.e. all cells but the start.
func (p Path) Cost(g Grid, hazard HazardCostFunc) int {
	total := 0
	for i := 0; i < len(p)-1; i++ {
		total += stepCost(g, p[i], hazard)
	}
	return total
}

// Forward returns the path ordered from start to target.
func (p Path) Forward() []board.Position {
	out := make([]board.Position, len(p))
	for i, pos := range p {
		out[len(p)-1-i] = pos
	}
	return out
}

type node struct {
	pos board.Position
	g   int
	f   int
	seq int
}

func lessNode(a, b node) bool {
	if a.f != b.f {
		return a.f < b.f
	}
	return a.seq < b.seq
}

// FindPath runs A* from start to target. The target is always enterable as a
// last step even when its tile blocks movement; every other cell must be
// passable. ok is false when either end lies off the grid or no route exists.
func FindPath(g Grid, start, target board.Position, hazard HazardCostFunc) (Path, bool) {
	if g == nil || !g.InBounds(start) || !g.InBounds(target) {
		return nil, false
	}

	open := heap.New(lessNode)
	closed := mapset.New[board.Position]()
	gScore := map[board.Position]int{start: 0}
	cameFrom := map[board.Position]board.Position{}
	seq := 0

	open.Push(node{pos: start, g: 0, f: heuristic(start, target), seq: seq})
	for open.Size() > 0 {
		cur, _ := open.Pop()
		if closed.Has(cur.pos) || cur.g > gScore[cur.pos] {
			continue
		}
		if cur.pos == target {
			return reconstruct(cameFrom, target), true
		}
		closed.Put(cur.pos)

		for _, next := range neighbors(cur.pos) {
			if closed.Has(next) || (next != target && !g.Passable(next)) {
				continue
			}
			tentative := cur.g + stepCost(g, next, hazard)
			if known, seen := gScore[next]; seen && tentative >= known {
				continue
			}
			gScore[next] = tentative
			cameFrom[next] = cur.pos
			seq++
			open.Push(node{pos: next, g: tentative, f: tentative + heuristic(next, target), seq: seq})
		}
	}
	return nil, false
}

// NextStep returns the first move along the best route, or Stay when the
// start already is the target or the target cannot be reached.
func NextStep(g Grid, start, target board.Position, hazard HazardCostFunc) board.Direction {
	path, ok := FindPath(g, start, target, hazard)
	if !ok || len(path) < 2 {
		return board.Stay
	}
	d, ok := board.DirectionBetween(start, path[len(path)-2])
	if !ok {
		return board.Stay
	}
	return d
}

// heuristic is the floored Euclidean distance. It never exceeds the number of
// unit moves left, so it stays admissible while every step costs at least 1.
func heuristic(a, b board.Position) int {
	dr := float64(a.Row - b.Row)
	dc := float64(a.Col - b.Col)
	return int(math.Floor(math.Sqrt(dr*dr + dc*dc)))
}

func stepCost(g Grid, p board.Position, hazard HazardCostFunc) int {
	if hazard == nil || !g.IsHazard(p) {
		return 1
	}
	if c := hazard(g.At(p)); c > 1 {
		return c
	}
	return 1
}

func neighbors(p board.Position) [4]board.Position {
	var out [4]board.Position
	for i, d := range board.Cardinals {
		dr, dc := d.Delta()
		out[i] = board.Position{Row: p.Row + dr, Col: p.Col + dc}
	}
	return out
}

func reconstruct(cameFrom map[board.Position]board.Position, cur board.Position) Path {
	path := Path{cur}
	for {
		prev, ok := cameFrom[cur]
		if !ok {
			return path
		}
		path = append(path, prev)
		cur = prev
	}
}
