package board

import "fmt"

type Direction int

const (
	Stay Direction = iota
	North
	East
	South
	West
)

// Cardinals lists the four moving directions in wire order.
var Cardinals = [4]Direction{North, East, South, West}

// All lists every legal move including Stay.
var All = [5]Direction{Stay, North, South, East, West}

func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return -1, 0
	case East:
		return 0, 1
	case South:
		return 1, 0
	case West:
		return 0, -1
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	default:
		return "Stay"
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "Stay":
		return Stay, nil
	case "North":
		return North, nil
	case "East":
		return East, nil
	case "South":
		return South, nil
	case "West":
		return West, nil
	default:
		return Stay, fmt.Errorf("unknown direction %q", s)
	}
}

// DirectionBetween returns the cardinal direction that moves from one cell to
// an orthogonally adjacent one.
func DirectionBetween(from, to Position) (Direction, bool) {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	for _, d := range Cardinals {
		r, c := d.Delta()
		if r == dr && c == dc {
			return d, true
		}
	}
	return Stay, false
}
