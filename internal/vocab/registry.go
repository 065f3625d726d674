package vocab

import (
	"fmt"

	"github.com/kibitz-bridge/kibitz/internal/call"
)

// Spec is the data form of a predicate as it appears in rule-set files:
// a "kind" naming the vocabulary entry plus its parameters.
type Spec map[string]any

// BuildConstraint constructs a constraint from its data form.
func BuildConstraint(spec Spec) (Constraint, error) {
	kind, err := spec.kind()
	if err != nil {
		return nil, err
	}
	build, ok := constraintBuilders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown constraint kind %q", kind)
	}
	c, err := build(spec)
	if err != nil {
		return nil, fmt.Errorf("constraint %q: %w", kind, err)
	}
	return c, nil
}

// BuildPrecondition constructs a precondition from its data form.
func BuildPrecondition(spec Spec) (Precondition, error) {
	kind, err := spec.kind()
	if err != nil {
		return nil, err
	}
	build, ok := preconditionBuilders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown precondition kind %q", kind)
	}
	p, err := build(spec)
	if err != nil {
		return nil, fmt.Errorf("precondition %q: %w", kind, err)
	}
	return p, nil
}

var constraintBuilders = map[string]func(Spec) (Constraint, error){
	"minHCP":           func(s Spec) (Constraint, error) { n, err := s.intArg("n"); return MinHCP(n), err },
	"maxHCP":           func(s Spec) (Constraint, error) { n, err := s.intArg("n"); return MaxHCP(n), err },
	"minPlayingPoints": func(s Spec) (Constraint, error) { n, err := s.intArg("n"); return MinPlayingPoints(n), err },
	"balanced":         func(Spec) (Constraint, error) { return Balanced{}, nil },
	"ruleOf20":         func(Spec) (Constraint, error) { return RuleOf20{}, nil },
	"hcpRange": func(s Spec) (Constraint, error) {
		lo, err := s.intArg("lo")
		if err != nil {
			return nil, err
		}
		hi, err := s.intArg("hi")
		return HCPRange{Lo: lo, Hi: hi}, err
	},
	"minLength": func(s Spec) (Constraint, error) {
		suit, err := s.strainArg("suit")
		if err != nil {
			return nil, err
		}
		n, err := s.intArg("n")
		return MinLength{Suit: suit, N: n}, err
	},
	"maxLength": func(s Spec) (Constraint, error) {
		suit, err := s.strainArg("suit")
		if err != nil {
			return nil, err
		}
		n, err := s.intArg("n")
		return MaxLength{Suit: suit, N: n}, err
	},
	"minLengthInCallSuit": func(s Spec) (Constraint, error) {
		n, err := s.intArg("n")
		return MinLengthInCallSuit(n), err
	},
	"longerSuit": func(s Spec) (Constraint, error) {
		a, err := s.strainArg("a")
		if err != nil {
			return nil, err
		}
		b, err := s.strainArg("b")
		return SuitLonger{A: a, B: b}, err
	},
	"equalLength": func(s Spec) (Constraint, error) {
		a, err := s.strainArg("a")
		if err != nil {
			return nil, err
		}
		b, err := s.strainArg("b")
		return SuitsEqualLength{A: a, B: b}, err
	},
	"minSupport": func(s Spec) (Constraint, error) {
		points, err := s.intArg("points")
		if err != nil {
			return nil, err
		}
		trumps, err := s.intArg("trumps")
		return MinSupportForPartner{Points: points, MinTrumps: trumps}, err
	},
	"maxSupport": func(s Spec) (Constraint, error) {
		n, err := s.intArg("points")
		return MaxSupportForPartner(n), err
	},
}

var preconditionBuilders = map[string]func(Spec) (Precondition, error){
	"noOpening":          func(Spec) (Precondition, error) { return NoOpening{}, nil },
	"raiseOfPartnerSuit": func(Spec) (Precondition, error) { return RaiseOfPartnersLastSuit{}, nil },
	"jump":               func(Spec) (Precondition, error) { return JumpFromLastContract{}, nil },
	"notJump":            func(Spec) (Precondition, error) { return NotJumpFromLastContract{}, nil },
	"unbidSuit":          func(Spec) (Precondition, error) { return UnbidSuit{}, nil },
	"callIsPass":         func(Spec) (Precondition, error) { return CallIsPass{}, nil },
	"opponentsBid":       func(Spec) (Precondition, error) { return OpponentsBid{}, nil },
	"partnershipSilent":  func(Spec) (Precondition, error) { return PartnershipSilent{}, nil },
	"opened": func(s Spec) (Precondition, error) {
		seat, err := s.seatArg("seat")
		return Opened{Seat: seat}, err
	},
	"lastBidTagged": func(s Spec) (Precondition, error) {
		seat, err := s.seatArg("seat")
		if err != nil {
			return nil, err
		}
		tag, err := s.stringArg("tag")
		return LastBidTagged{Seat: seat, Tag: tag}, err
	},
	"lastBidHasStrain": func(s Spec) (Precondition, error) {
		seat, err := s.seatArg("seat")
		if err != nil {
			return nil, err
		}
		strain, err := s.strainArg("strain")
		return LastBidHasStrain{Seat: seat, Strain: strain}, err
	},
	"callHasLevel": func(s Spec) (Precondition, error) {
		n, err := s.intArg("level")
		return CallHasLevel(n), err
	},
}

// The combinator builders recurse through BuildConstraint and
// BuildPrecondition, which read the builder maps; registering them here
// keeps the map initializers free of that reference cycle.
func init() {
	constraintBuilders["and"] = func(s Spec) (Constraint, error) {
		subs, err := s.constraintsArg("of")
		return And(subs), err
	}
	constraintBuilders["or"] = func(s Spec) (Constraint, error) {
		subs, err := s.constraintsArg("of")
		return Or(subs), err
	}
	constraintBuilders["not"] = func(s Spec) (Constraint, error) {
		subs, err := s.constraintsArg("of")
		if err != nil {
			return nil, err
		}
		if len(subs) != 1 {
			return nil, fmt.Errorf("not wants exactly one operand, got %d", len(subs))
		}
		return Not{C: subs[0]}, nil
	}
	preconditionBuilders["invert"] = func(s Spec) (Precondition, error) {
		raw, ok := s["of"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invert wants an \"of\" predicate")
		}
		inner, err := BuildPrecondition(Spec(raw))
		if err != nil {
			return nil, err
		}
		return Inverted{P: inner}, nil
	}
}

func (s Spec) kind() (string, error) {
	kind, ok := s["kind"].(string)
	if !ok || kind == "" {
		return "", fmt.Errorf("predicate spec missing \"kind\"")
	}
	return kind, nil
}

func (s Spec) intArg(key string) (int, error) {
	switch v := s[key].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		// JSON-shaped decoders hand integers over as float64.
		if v != float64(int(v)) {
			return 0, fmt.Errorf("argument %q: want an integer, got %v", key, v)
		}
		return int(v), nil
	case nil:
		return 0, fmt.Errorf("missing argument %q", key)
	default:
		return 0, fmt.Errorf("argument %q: want an integer, got %T", key, v)
	}
}

func (s Spec) stringArg(key string) (string, error) {
	v, ok := s[key].(string)
	if !ok {
		return "", fmt.Errorf("missing or non-string argument %q", key)
	}
	return v, nil
}

func (s Spec) strainArg(key string) (call.Strain, error) {
	v, err := s.stringArg(key)
	if err != nil {
		return 0, err
	}
	if len(v) != 1 {
		return 0, fmt.Errorf("argument %q: want a strain letter, got %q", key, v)
	}
	strain, err := call.StrainFromChar(v[0])
	if err != nil {
		return 0, fmt.Errorf("argument %q: %w", key, err)
	}
	return strain, nil
}

func (s Spec) seatArg(key string) (call.Seat, error) {
	v, err := s.stringArg(key)
	if err != nil {
		return 0, err
	}
	switch v {
	case "rho", "RHO":
		return call.RHO, nil
	case "partner", "Partner":
		return call.Partner, nil
	case "lho", "LHO":
		return call.LHO, nil
	case "me", "Me":
		return call.Me, nil
	}
	return 0, fmt.Errorf("argument %q: unknown seat %q", key, v)
}

func (s Spec) constraintsArg(key string) ([]Constraint, error) {
	raw, ok := s[key].([]any)
	if !ok {
		return nil, fmt.Errorf("missing or non-list argument %q", key)
	}
	subs := make([]Constraint, 0, len(raw))
	for i, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("argument %q[%d]: want a predicate spec", key, i)
		}
		sub, err := BuildConstraint(Spec(m))
		if err != nil {
			return nil, fmt.Errorf("argument %q[%d]: %w", key, i, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
