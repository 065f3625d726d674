package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kibitz-bridge/kibitz/internal/call"
	"github.com/kibitz-bridge/kibitz/internal/hand"
)

// Scenario defines one declarative bidding test: a deal plus assertions
// over the auction the system should produce for it.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are keyed by it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Dealer is the position that calls first ("N", "E", "S" or "W").
	// Defaults to North.
	Dealer string `yaml:"dealer,omitempty"`

	// Hands maps each position to its PBN suit holding, spades first
	// (e.g. "AQ32.KQ2.A32.Q32"). All four positions are required and the
	// four hands must form a legal 52-card deal.
	Hands map[string]string `yaml:"hands"`

	// Assertions validate the finished auction and the per-call trace.
	// Supported types: auction_equals, contract_is, call_at_turn, rule_fired.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates the auction or an individual decision.
type Assertion struct {
	// Type specifies the assertion type:
	//   - "auction_equals": the complete call sequence matches exactly
	//   - "contract_is": the final contract matches (empty for a passout)
	//   - "call_at_turn": the call made at a 0-based turn index
	//   - "rule_fired": a rule decided some call (or the call at Turn)
	Type string `yaml:"type"`

	// Auction is the expected space-separated call sequence
	// (used by auction_equals).
	Auction string `yaml:"auction,omitempty"`

	// Contract is the expected final contract, e.g. "4S"
	// (used by contract_is; empty asserts a passout).
	Contract string `yaml:"contract,omitempty"`

	// Turn is a 0-based index into the auction. Required for call_at_turn;
	// optional for rule_fired, which otherwise accepts any turn.
	Turn *int `yaml:"turn,omitempty"`

	// Call is the expected call at Turn (used by call_at_turn).
	Call string `yaml:"call,omitempty"`

	// Rule is the expected deciding rule name (used by rule_fired).
	Rule string `yaml:"rule,omitempty"`
}

// Assertion type constants.
const (
	AssertAuctionEquals = "auction_equals"
	AssertContractIs    = "contract_is"
	AssertCallAtTurn    = "call_at_turn"
	AssertRuleFired     = "rule_fired"
)

// LoadScenario reads and parses a scenario YAML file. Returns an error if
// the file doesn't exist, is malformed, contains unknown fields (typos),
// or describes an illegal deal.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml file in a directory, sorted by file
// name so suites run in a stable order.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// DealerPosition parses the scenario's dealer, defaulting to North.
func (s *Scenario) DealerPosition() (call.Position, error) {
	if s.Dealer == "" {
		return call.North, nil
	}
	if len(s.Dealer) != 1 {
		return 0, fmt.Errorf("dealer must be one of N, E, S, W, got %q", s.Dealer)
	}
	return call.PositionFromChar(s.Dealer[0])
}

// Deal parses the four hands into position order.
func (s *Scenario) Deal() ([4]hand.Hand, error) {
	var deal [4]hand.Hand
	for _, p := range call.Positions {
		h, err := hand.Parse(s.Hands[p.Char()])
		if err != nil {
			return deal, fmt.Errorf("hand %s: %w", p.Char(), err)
		}
		deal[p] = h
	}
	return deal, nil
}

// validateScenario checks that required fields are present and that the
// deal is legal before any bidding happens.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := s.DealerPosition(); err != nil {
		return err
	}

	for _, p := range call.Positions {
		if s.Hands[p.Char()] == "" {
			return fmt.Errorf("hands: position %s is required", p.Char())
		}
	}
	for key := range s.Hands {
		if len(key) != 1 {
			return fmt.Errorf("hands: unknown position %q", key)
		}
		if _, err := call.PositionFromChar(key[0]); err != nil {
			return fmt.Errorf("hands: unknown position %q", key)
		}
	}

	deal, err := s.Deal()
	if err != nil {
		return err
	}
	// Four valid hands hold 52 cards total, so checking for duplicates
	// across hands is enough to prove the deal is legal.
	seen := map[string]string{}
	for _, p := range call.Positions {
		for _, strain := range call.Suits {
			for _, rank := range deal[p].CardsIn(strain) {
				card := string(rank) + strain.Char()
				if holder, dup := seen[card]; dup {
					return fmt.Errorf("hands: card %s dealt to both %s and %s", card, holder, p.Char())
				}
				seen[card] = p.Char()
			}
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertAuctionEquals:
		if a.Auction == "" {
			return fmt.Errorf("assertions[%d]: auction is required for auction_equals", index)
		}
	case AssertContractIs:
		// An empty contract asserts a passout, so nothing more to check.
	case AssertCallAtTurn:
		if a.Turn == nil {
			return fmt.Errorf("assertions[%d]: turn is required for call_at_turn", index)
		}
		if *a.Turn < 0 {
			return fmt.Errorf("assertions[%d]: turn must be non-negative", index)
		}
		if a.Call == "" {
			return fmt.Errorf("assertions[%d]: call is required for call_at_turn", index)
		}
		if _, err := call.Parse(a.Call); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertRuleFired:
		if a.Rule == "" {
			return fmt.Errorf("assertions[%d]: rule is required for rule_fired", index)
		}
		if a.Turn != nil && *a.Turn < 0 {
			return fmt.Errorf("assertions[%d]: turn must be non-negative", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
