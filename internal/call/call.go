package call

import (
	"fmt"
	"strings"
)

// Strain is the denomination of a contract bid.
type Strain int8

const (
	Clubs Strain = iota
	Diamonds
	Hearts
	Spades
	Notrump
)

// Suits lists the four suits in ascending rank order (no notrump).
var Suits = []Strain{Clubs, Diamonds, Hearts, Spades}

// Strains lists all five strains in ascending rank order.
var Strains = []Strain{Clubs, Diamonds, Hearts, Spades, Notrump}

var strainChars = [...]byte{'C', 'D', 'H', 'S', 'N'}

// Char returns the single-letter name of the strain ("C", "D", "H", "S", "N").
func (s Strain) Char() string {
	return string(strainChars[s])
}

// String implements fmt.Stringer.
func (s Strain) String() string { return s.Char() }

// IsSuit reports whether the strain is one of the four suits.
func (s Strain) IsSuit() bool { return s != Notrump }

// IsMajor reports whether the strain is hearts or spades.
func (s Strain) IsMajor() bool { return s == Hearts || s == Spades }

// IsMinor reports whether the strain is clubs or diamonds.
func (s Strain) IsMinor() bool { return s == Clubs || s == Diamonds }

// StrainFromChar parses a single strain letter.
func StrainFromChar(c byte) (Strain, error) {
	for i, sc := range strainChars {
		if sc == c {
			return Strain(i), nil
		}
	}
	return 0, fmt.Errorf("invalid strain %q", string(c))
}

// Call is a single auction call: a contract bid, pass, double, or redouble.
//
// Call is a small immutable value; compare with ==.
type Call struct {
	// Name is the canonical spelling: "1C".."7N", "P", "X", "XX".
	Name string

	// Level is 1-7 for contract bids, 0 otherwise.
	Level int

	// Strain is the bid denomination; only meaningful when Level > 0.
	Strain Strain
}

// The three non-contract calls.
var (
	Pass     = Call{Name: "P"}
	Double   = Call{Name: "X"}
	Redouble = Call{Name: "XX"}
)

// Parse parses a call name ("1C", "3N", "P", "X", "XX"). Case-insensitive.
func Parse(name string) (Call, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	switch upper {
	case "P", "PASS":
		return Pass, nil
	case "X", "DBL":
		return Double, nil
	case "XX", "RDBL":
		return Redouble, nil
	}
	if len(upper) != 2 {
		return Call{}, fmt.Errorf("invalid call %q", name)
	}
	level := int(upper[0] - '0')
	if level < 1 || level > 7 {
		return Call{}, fmt.Errorf("invalid call level in %q", name)
	}
	strain, err := StrainFromChar(upper[1])
	if err != nil {
		return Call{}, fmt.Errorf("invalid call %q: %w", name, err)
	}
	return Call{Name: upper, Level: level, Strain: strain}, nil
}

// MustParse is Parse that panics on error. For statically-known call names.
func MustParse(name string) Call {
	c, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return c
}

// FromLevelAndStrain builds a contract bid.
func FromLevelAndStrain(level int, strain Strain) Call {
	return Call{
		Name:   fmt.Sprintf("%d%s", level, strain.Char()),
		Level:  level,
		Strain: strain,
	}
}

// String implements fmt.Stringer.
func (c Call) String() string { return c.Name }

// IsContract reports whether the call is a level+strain bid.
func (c Call) IsContract() bool { return c.Level > 0 }

// IsPass reports whether the call is a pass.
func (c Call) IsPass() bool { return c == Pass }

// IsDouble reports whether the call is a double.
func (c Call) IsDouble() bool { return c == Double }

// IsRedouble reports whether the call is a redouble.
func (c Call) IsRedouble() bool { return c == Redouble }

// Beats reports whether c is a contract bid strictly higher than other.
// Non-contract calls never beat anything.
func (c Call) Beats(other Call) bool {
	if !c.IsContract() || !other.IsContract() {
		return false
	}
	if c.Level != other.Level {
		return c.Level > other.Level
	}
	return c.Strain > other.Strain
}
