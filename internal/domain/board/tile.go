package board

import "strconv"

type TileKind int

const (
	TileAir TileKind = iota
	TileWall
	TileTavern
	TileSpike
	TileFries
	TileBurger
	TileHero
	TileCustomer
)

func (k TileKind) String() string {
	switch k {
	case TileAir:
		return "air"
	case TileWall:
		return "wall"
	case TileTavern:
		return "tavern"
	case TileSpike:
		return "spike"
	case TileFries:
		return "fries"
	case TileBurger:
		return "burger"
	case TileHero:
		return "hero"
	case TileCustomer:
		return "customer"
	default:
		return "unknown"
	}
}

// NoID marks a tile payload without an owner or id ("-" on the wire).
const NoID = -1

const noIDCode = '-'

// Tile is the decoded content of one grid cell. ID carries the owner id of a
// resource, the hero id of a hero or the customer id of a customer; it is
// NoID for every other kind and for unclaimed resources.
type Tile struct {
	Kind TileKind
	ID   int
}

var (
	Air    = Tile{Kind: TileAir, ID: NoID}
	Wall   = Tile{Kind: TileWall, ID: NoID}
	Tavern = Tile{Kind: TileTavern, ID: NoID}
	Spike  = Tile{Kind: TileSpike, ID: NoID}
)

func Fries(owner int) Tile  { return Tile{Kind: TileFries, ID: owner} }
func Burger(owner int) Tile { return Tile{Kind: TileBurger, ID: owner} }
func Hero(id int) Tile      { return Tile{Kind: TileHero, ID: id} }
func Customer(id int) Tile  { return Tile{Kind: TileCustomer, ID: id} }

func (t Tile) IsResource() bool {
	return t.Kind == TileFries || t.Kind == TileBurger
}

func (t Tile) Owned() bool {
	return t.ID != NoID
}

// Code re-encodes the tile in its two-character wire form.
func (t Tile) Code() string {
	switch t.Kind {
	case TileAir:
		return "  "
	case TileWall:
		return "##"
	case TileTavern:
		return "[]"
	case TileSpike:
		return "^^"
	case TileFries:
		return "F" + idCode(t.ID)
	case TileBurger:
		return "B" + idCode(t.ID)
	case TileHero:
		return "@" + idCode(t.ID)
	case TileCustomer:
		return "C" + idCode(t.ID)
	default:
		return "??"
	}
}

func (t Tile) String() string {
	if t.ID == NoID {
		return t.Kind.String()
	}
	return t.Kind.String() + "(" + strconv.Itoa(t.ID) + ")"
}

func idCode(id int) string {
	if id == NoID {
		return string(noIDCode)
	}
	return strconv.Itoa(id)
}

func decodeTile(code string) (Tile, bool) {
	switch code {
	case "  ":
		return Air, true
	case "##":
		return Wall, true
	case "[]":
		return Tavern, true
	case "^^":
		return Spike, true
	}
	var kind TileKind
	switch code[0] {
	case 'F':
		kind = TileFries
	case 'B':
		kind = TileBurger
	case '@':
		kind = TileHero
	case 'C':
		kind = TileCustomer
	default:
		return Tile{}, false
	}
	switch c := code[1]; {
	case c == noIDCode:
		return Tile{Kind: kind, ID: NoID}, true
	case c >= '0' && c <= '9':
		return Tile{Kind: kind, ID: int(c - '0')}, true
	default:
		return Tile{}, false
	}
}
