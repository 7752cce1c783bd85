package game

import (
	"fmt"

	"blitzbot/internal/domain/board"

	"github.com/zyedidia/generic/mapset"
)

type Resource int

const (
	ResourceFries Resource = iota
	ResourceBurger
)

func (r Resource) String() string {
	if r == ResourceBurger {
		return "burger"
	}
	return "fries"
}

type Hero struct {
	ID       int
	Name     string
	Pos      board.Position
	Life     int
	Calories int
	Fries    int
	Burgers  int
}

func (h Hero) Holding(r Resource) int {
	if r == ResourceBurger {
		return h.Burgers
	}
	return h.Fries
}

type Customer struct {
	ID              int
	Fries           int
	Burgers         int
	FulfilledOrders int
}

func (c Customer) Wants(r Resource) int {
	if r == ResourceBurger {
		return c.Burgers
	}
	return c.Fries
}

// Unmet is how many items the hero still lacks for this order.
func (c Customer) Unmet(h Hero) int {
	return max(0, c.Fries-h.Fries) + max(0, c.Burgers-h.Burgers)
}

func (c Customer) SatisfiedBy(h Hero) bool {
	return h.Fries >= c.Fries && h.Burgers >= c.Burgers
}

// Lacking returns the first resource kind the hero is short of, fries first.
func (c Customer) Lacking(h Hero) (Resource, bool) {
	if h.Fries < c.Fries {
		return ResourceFries, true
	}
	if h.Burgers < c.Burgers {
		return ResourceBurger, true
	}
	return ResourceFries, false
}

// Game is the per-turn view derived from one State. It is rebuilt from
// scratch every turn and never mutated.
type Game struct {
	Board     *board.Board
	Me        Hero
	Heroes    []Hero
	Customers []Customer
	Turn      int
	MaxTurns  int
	Finished  bool

	FriesLocs    map[board.Position]int
	BurgerLocs   map[board.Position]int
	HeroLocs     map[board.Position]int
	CustomerLocs map[int]board.Position
	Taverns      []board.Position
	Spikes       mapset.Set[board.Position]

	tavernSet mapset.Set[board.Position]
}

func New(s State) (*Game, error) {
	b, err := board.Parse(s.Game.Board.Tiles, s.Game.Board.Size)
	if err != nil {
		return nil, fmt.Errorf("parse board: %w", err)
	}
	g := &Game{
		Board:        b,
		Me:           heroFromDTO(s.Hero),
		Turn:         s.Game.Turn,
		MaxTurns:     s.Game.MaxTurns,
		Finished:     s.Game.Finished,
		FriesLocs:    map[board.Position]int{},
		BurgerLocs:   map[board.Position]int{},
		HeroLocs:     map[board.Position]int{},
		CustomerLocs: map[int]board.Position{},
		Spikes:       mapset.New[board.Position](),
		tavernSet:    mapset.New[board.Position](),
	}
	for _, h := range s.Game.Heroes {
		g.Heroes = append(g.Heroes, heroFromDTO(h))
	}
	for _, c := range s.Game.Customers {
		g.Customers = append(g.Customers, Customer{
			ID:              c.ID,
			Fries:           c.FrenchFries,
			Burgers:         c.Burger,
			FulfilledOrders: c.FulfilledOrders,
		})
	}

	b.Each(func(p board.Position, t board.Tile) {
		switch t.Kind {
		case board.TileFries:
			g.FriesLocs[p] = t.ID
		case board.TileBurger:
			g.BurgerLocs[p] = t.ID
		case board.TileHero:
			g.HeroLocs[p] = t.ID
		case board.TileTavern:
			g.Taverns = append(g.Taverns, p)
			g.tavernSet.Put(p)
		case board.TileSpike:
			g.Spikes.Put(p)
		case board.TileCustomer:
			if _, dup := g.CustomerLocs[t.ID]; !dup {
				g.CustomerLocs[t.ID] = p
			}
		}
	})
	return g, nil
}

func (g *Game) IsTavern(p board.Position) bool {
	return g.tavernSet.Has(p)
}

// ResourceLocs maps each cell holding the resource kind to its owner id.
func (g *Game) ResourceLocs(r Resource) map[board.Position]int {
	if r == ResourceBurger {
		return g.BurgerLocs
	}
	return g.FriesLocs
}

// FreeResourceAt reports whether p holds a resource the hero does not own.
func (g *Game) FreeResourceAt(p board.Position) bool {
	t := g.Board.At(p)
	return t.IsResource() && t.ID != g.Me.ID
}

func (g *Game) CustomerByID(id int) (Customer, bool) {
	for _, c := range g.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

func heroFromDTO(h HeroDTO) Hero {
	return Hero{
		ID:       h.ID,
		Name:     h.Name,
		Pos:      board.Position{Row: h.Pos.X, Col: h.Pos.Y},
		Life:     max(0, h.Life),
		Calories: h.Calories,
		Fries:    h.FrenchFriesCount,
		Burgers:  h.BurgerCount,
	}
}
