package call

import (
	"fmt"
	"strings"
)

// History is the sequence of calls made so far on one board.
//
// History is immutable: Extend returns a fresh value sharing no mutable
// state with the receiver, so any number of goroutines may read a History
// concurrently.
type History struct {
	Dealer Position
	Calls  []Call
}

// NewHistory returns an empty history with the given dealer.
func NewHistory(dealer Position) History {
	return History{Dealer: dealer}
}

// ParseHistory parses a space- or comma-separated calls string, e.g.
// "1C P 1H P". An empty string yields an empty history.
func ParseHistory(dealer Position, s string) (History, error) {
	h := NewHistory(dealer)
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
	if s == "" {
		return h, nil
	}
	for _, name := range strings.Fields(s) {
		c, err := Parse(name)
		if err != nil {
			return History{}, fmt.Errorf("invalid history: %w", err)
		}
		if !h.IsLegal(c) {
			return History{}, fmt.Errorf("invalid history: %s is not legal after %q", c, h.String())
		}
		h = h.Extend(c)
	}
	return h, nil
}

// Extend returns a new history with the call appended.
func (h History) Extend(c Call) History {
	calls := make([]Call, len(h.Calls)+1)
	copy(calls, h.Calls)
	calls[len(h.Calls)] = c
	return History{Dealer: h.Dealer, Calls: calls}
}

// String renders the calls as a space-separated string.
func (h History) String() string {
	names := make([]string, len(h.Calls))
	for i, c := range h.Calls {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// PositionToAct returns the seat whose turn it is.
func (h History) PositionToAct() Position {
	return Position((int(h.Dealer) + len(h.Calls)) % 4)
}

// PositionOfCall returns the seat that made the i'th call.
func (h History) PositionOfCall(i int) Position {
	return Position((int(h.Dealer) + i) % 4)
}

// LastContract returns the highest (most recent) contract bid, if any.
func (h History) LastContract() (Call, bool) {
	for i := len(h.Calls) - 1; i >= 0; i-- {
		if h.Calls[i].IsContract() {
			return h.Calls[i], true
		}
	}
	return Call{}, false
}

// LastNonPass returns the most recent call that was not a pass, if any.
func (h History) LastNonPass() (Call, bool) {
	if i := h.lastNonPassIndex(); i >= 0 {
		return h.Calls[i], true
	}
	return Call{}, false
}

func (h History) lastNonPassIndex() int {
	for i := len(h.Calls) - 1; i >= 0; i-- {
		if !h.Calls[i].IsPass() {
			return i
		}
	}
	return -1
}

// LastCallFor returns the most recent call made by the given seat, along
// with its index in Calls. ok is false if the seat has not acted yet.
func (h History) LastCallFor(p Position) (c Call, index int, ok bool) {
	for i := len(h.Calls) - 1; i >= 0; i-- {
		if h.PositionOfCall(i) == p {
			return h.Calls[i], i, true
		}
	}
	return Call{}, -1, false
}

// IsComplete reports whether the auction is over: four initial passes, or
// any contract bid followed by three passes.
func (h History) IsComplete() bool {
	n := len(h.Calls)
	if n < 4 {
		return false
	}
	for _, c := range h.Calls[n-3:] {
		if !c.IsPass() {
			return false
		}
	}
	return true
}

// IsPassout reports whether the auction completed with no contract bid.
func (h History) IsPassout() bool {
	_, bid := h.LastContract()
	return h.IsComplete() && !bid
}

// IsLegal reports whether the call may be made now.
func (h History) IsLegal(c Call) bool {
	if h.IsComplete() {
		return false
	}
	if c.IsPass() {
		return true
	}
	if c.IsContract() {
		last, ok := h.LastContract()
		return !ok || c.Beats(last)
	}
	// Double and redouble apply to the opponents' last non-pass call.
	i := h.lastNonPassIndex()
	if i < 0 {
		return false
	}
	if h.PositionOfCall(i).SameSide(h.PositionToAct()) {
		return false
	}
	if c.IsDouble() {
		return h.Calls[i].IsContract()
	}
	return h.Calls[i].IsDouble()
}

// PossibleCalls enumerates every call legal right now, pass first, then
// double/redouble, then contract bids in ascending order.
func (h History) PossibleCalls() []Call {
	if h.IsComplete() {
		return nil
	}
	calls := []Call{Pass}
	if h.IsLegal(Double) {
		calls = append(calls, Double)
	}
	if h.IsLegal(Redouble) {
		calls = append(calls, Redouble)
	}
	last, haveContract := h.LastContract()
	for level := 1; level <= 7; level++ {
		for _, strain := range Strains {
			bid := FromLevelAndStrain(level, strain)
			if haveContract && !bid.Beats(last) {
				continue
			}
			calls = append(calls, bid)
		}
	}
	return calls
}
