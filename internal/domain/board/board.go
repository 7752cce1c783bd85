// Package board decodes the server's flat tile string into an immutable grid
// and answers the movement queries the pathfinder and the policy rely on.
package board

import (
	"errors"
	"fmt"
	"strings"
)

const codeWidth = 2

var ErrMalformedTile = errors.New("malformed tile")

type MalformedTileError struct {
	Index int
	Code  string
	Want  int
	Got   int
}

func (e *MalformedTileError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("malformed tile %q at index %d", e.Code, e.Index)
	}
	return fmt.Sprintf("malformed board: want %d tiles, got %d", e.Want, e.Got)
}

func (e *MalformedTileError) Is(target error) bool {
	return target == ErrMalformedTile
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func Manhattan(a, b Position) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

type Board struct {
	size  int
	tiles []Tile
}

func Parse(raw string, size int) (*Board, error) {
	if size <= 0 {
		return nil, &MalformedTileError{Want: 0, Got: len(raw) / codeWidth}
	}
	if len(raw)%codeWidth != 0 {
		return nil, &MalformedTileError{Index: len(raw) / codeWidth, Code: raw[len(raw)-1:]}
	}
	count := len(raw) / codeWidth
	if count != size*size {
		return nil, &MalformedTileError{Want: size * size, Got: count}
	}
	tiles := make([]Tile, count)
	for i := 0; i < count; i++ {
		code := raw[i*codeWidth : (i+1)*codeWidth]
		t, ok := decodeTile(code)
		if !ok {
			return nil, &MalformedTileError{Index: i, Code: code}
		}
		tiles[i] = t
	}
	return &Board{size: size, tiles: tiles}, nil
}

// New builds a board from rows of tiles; every row must have len(rows) tiles.
func New(rows [][]Tile) (*Board, error) {
	size := len(rows)
	tiles := make([]Tile, 0, size*size)
	for _, row := range rows {
		if len(row) != size {
			return nil, &MalformedTileError{Want: size * size, Got: len(tiles) + len(row)}
		}
		tiles = append(tiles, row...)
	}
	return &Board{size: size, tiles: tiles}, nil
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) InBounds(p Position) bool {
	return p.Row >= 0 && p.Col >= 0 && p.Row < b.size && p.Col < b.size
}

// At returns the tile at p; cells outside the grid read as Wall.
func (b *Board) At(p Position) Tile {
	if !b.InBounds(p) {
		return Wall
	}
	return b.tiles[p.Row*b.size+p.Col]
}

// Passable reports whether a cell can be walked through. Only Air and Spike
// are; taverns, resources, heroes and customers are entered as a final step.
func (b *Board) Passable(p Position) bool {
	if !b.InBounds(p) {
		return false
	}
	switch b.At(p).Kind {
	case TileAir, TileSpike:
		return true
	default:
		return false
	}
}

func (b *Board) IsHazard(p Position) bool {
	return b.InBounds(p) && b.At(p).Kind == TileSpike
}

// Step applies one move and clamps the result to the grid.
func (b *Board) Step(p Position, d Direction) Position {
	return b.step(p, d, b.size-1)
}

// StepLegacy clamps to size instead of size-1, reproducing the judge's
// historical boundary behaviour.
func (b *Board) StepLegacy(p Position, d Direction) Position {
	return b.step(p, d, b.size)
}

func (b *Board) step(p Position, d Direction, upper int) Position {
	dr, dc := d.Delta()
	return Position{Row: clamp(p.Row+dr, 0, upper), Col: clamp(p.Col+dc, 0, upper)}
}

// Adjacent returns the in-bounds orthogonal cells in +row, -row, -col, +col
// order, the order the policy scans for nearby pickups and taverns.
func (b *Board) Adjacent(p Position) []Position {
	candidates := [4]Position{
		{Row: p.Row + 1, Col: p.Col},
		{Row: p.Row - 1, Col: p.Col},
		{Row: p.Row, Col: p.Col - 1},
		{Row: p.Row, Col: p.Col + 1},
	}
	out := make([]Position, 0, len(candidates))
	for _, c := range candidates {
		if b.InBounds(c) {
			out = append(out, c)
		}
	}
	return out
}

// Each visits every cell in row-major order.
func (b *Board) Each(fn func(p Position, t Tile)) {
	for i, t := range b.tiles {
		fn(Position{Row: i / b.size, Col: i % b.size}, t)
	}
}

func (b *Board) Encode() string {
	var sb strings.Builder
	sb.Grow(len(b.tiles) * codeWidth)
	for _, t := range b.tiles {
		sb.WriteString(t.Code())
	}
	return sb.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
