package rules

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kibitz-bridge/kibitz/internal/call"
	"github.com/kibitz-bridge/kibitz/internal/priority"
)

func mustCall(t *testing.T, name string) call.Call {
	t.Helper()
	c, err := call.Parse(name)
	require.NoError(t, err)
	return c
}

// fixtureTemplates builds a small but representative template tree:
// inheritance, per-call maps, and conditional overrides.
func fixtureTemplates(t *testing.T) []*Template {
	t.Helper()
	_, syms := newSymbols(t,
		"opening.NotrumpOpening", "opening.LowerMajor", "opening.HigherMajor",
		"opening.LongestMajor", "response.OneNotrump",
	)

	opening := &Template{
		Name:          "Opening",
		Preconditions: []Precondition{namedPrec("no-opening-yet")},
		Tags:          []string{"Opening"},
	}
	major := &Template{
		Name:              "OneLevelMajorOpening",
		Parent:            opening,
		SharedConstraints: []Constraint{namedCons("opening-strength")},
		ConstraintsPerCall: map[string]Constraint{
			"1H": namedCons("hearts>=5"),
			"1S": namedCons("spades>=5"),
		},
		PrioritiesPerCall: map[string]*priority.Symbol{
			"1H": syms["opening.LowerMajor"],
			"1S": syms["opening.HigherMajor"],
		},
		ConditionalPerCall: map[string][]ConditionalPriority{
			"1H": {{When: namedCons("hearts>spades"), Priority: syms["opening.LongestMajor"]}},
			"1S": {{When: namedCons("spades>hearts"), Priority: syms["opening.LongestMajor"]}},
		},
	}
	notrump := &Template{
		Name:              "NotrumpOpening",
		Parent:            opening,
		Calls:             []string{"1N", "2N"},
		Priority:          syms["opening.NotrumpOpening"],
		SharedConstraints: []Constraint{namedCons("balanced")},
	}
	response := &Template{
		Name:              "OneNotrumpResponse",
		Calls:             []string{"1N"},
		Priority:          syms["response.OneNotrump"],
		Preconditions:     []Precondition{namedPrec("partner-opened")},
		SharedConstraints: []Constraint{namedCons("points>=6")},
	}
	return []*Template{major, notrump, response}
}

func TestCanonicalTableGolden(t *testing.T) {
	table, err := Compile(fixtureTemplates(t))
	require.NoError(t, err)

	data, err := table.CanonicalJSON()
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "compiled_table", data)
}

func TestCompilationIsIdempotent(t *testing.T) {
	first, err := Compile(fixtureTemplates(t))
	require.NoError(t, err)
	second, err := Compile(fixtureTemplates(t))
	require.NoError(t, err)

	a, err := first.CanonicalJSON()
	require.NoError(t, err)
	b, err := second.CanonicalJSON()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	ha, err := first.Hash()
	require.NoError(t, err)
	hb, err := second.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)
}

func TestCanonicalObjectKeyOrder(t *testing.T) {
	data, err := marshalCanonical(map[string]any{"b": 1, "a": 2, "aa": 3})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"aa":3,"b":1}`, string(data))
}

func TestCanonicalRejectsFloats(t *testing.T) {
	_, err := marshalCanonical(map[string]any{"x": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float")
}

func TestRulesForIndexesByCall(t *testing.T) {
	table, err := Compile(fixtureTemplates(t))
	require.NoError(t, err)

	oneNT := table.RulesFor(mustCall(t, "1N"))
	require.Len(t, oneNT, 2) // NotrumpOpening and OneNotrumpResponse
	assert.Empty(t, table.RulesFor(mustCall(t, "7N")))
}
