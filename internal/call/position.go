package call

import "fmt"

// Position is a seat at the table, in dealing order.
type Position int8

const (
	North Position = iota
	East
	South
	West
)

// Positions lists the four seats in dealing order.
var Positions = []Position{North, East, South, West}

var positionChars = [...]byte{'N', 'E', 'S', 'W'}

// Char returns the single-letter seat name.
func (p Position) Char() string { return string(positionChars[p]) }

// String implements fmt.Stringer.
func (p Position) String() string { return p.Char() }

// Partner returns the seat across the table.
func (p Position) Partner() Position { return (p + 2) % 4 }

// LHO returns the left-hand opponent (next to act after p).
func (p Position) LHO() Position { return (p + 1) % 4 }

// RHO returns the right-hand opponent (acts immediately before p).
func (p Position) RHO() Position { return (p + 3) % 4 }

// SameSide reports whether p and other are partners (or the same seat).
func (p Position) SameSide(other Position) bool { return p%2 == other%2 }

// PositionFromChar parses a seat letter ("N", "E", "S", "W").
func PositionFromChar(c byte) (Position, error) {
	for i, pc := range positionChars {
		if pc == c || pc == c-('a'-'A') {
			return Position(i), nil
		}
	}
	return 0, fmt.Errorf("invalid position %q", string(c))
}

// Seat is a position relative to the player about to act.
//
// Rule preconditions are authored relative to the acting player, not to
// compass seats, so the engine talks in Seats and translates using the
// History's position to act.
type Seat int8

const (
	RHO Seat = iota
	Partner
	LHO
	Me
)

var seatNames = [...]string{"RHO", "Partner", "LHO", "Me"}

// String implements fmt.Stringer.
func (s Seat) String() string { return seatNames[s] }

// Resolve maps the seat to an absolute position given who is about to act.
func (s Seat) Resolve(toAct Position) Position {
	switch s {
	case RHO:
		return toAct.RHO()
	case Partner:
		return toAct.Partner()
	case LHO:
		return toAct.LHO()
	default:
		return toAct
	}
}
