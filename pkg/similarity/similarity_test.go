package similarity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridmap/gridmap/pkg/similarity"
)

func TestScoreExactMatches(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{"identical", "voltage", "voltage"},
		{"case insensitive", "Voltage", "VOLTAGE"},
		{"underscore vs camel", "BUS_NAME", "BusName"},
		{"space vs camel", "Rated Voltage", "RatedVoltage"},
		{"punctuation stripped", "KV_RATING", "kv rating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 1.0, similarity.Score(tt.a, tt.b))
		})
	}
}

func TestScoreSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"BUS_NAME", "Name"},
		{"Voltage", "Volt"},
		{"from_bus", "to_bus"},
		{"cable length", "length"},
		{"xfmr", "transformer"},
	}

	for _, p := range pairs {
		assert.Equal(t, similarity.Score(p[0], p[1]), similarity.Score(p[1], p[0]),
			"score(%q,%q) must be symmetric", p[0], p[1])
	}
}

func TestScoreReflexivity(t *testing.T) {
	for _, s := range []string{"x", "Voltage", "BUS_NAME", "loadflow_result"} {
		assert.Equal(t, 1.0, similarity.Score(s, s))
	}
}

func TestScoreBounds(t *testing.T) {
	pairs := [][2]string{
		{"a", "b"},
		{"voltage", "impedance"},
		{"BUS_NAME", "Name"},
		{"completely different", "unrelated thing"},
	}

	for _, p := range pairs {
		score := similarity.Score(p[0], p[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	assert.Equal(t, 0.0, similarity.Score("", "voltage"))
	assert.Equal(t, 0.0, similarity.Score("voltage", ""))
	assert.Equal(t, 0.0, similarity.Score("", ""))
	assert.Equal(t, 0.0, similarity.Score("___", "voltage"), "punctuation-only normalizes to empty")
}

func TestScoreOrdering(t *testing.T) {
	// A near-identical header should outscore a vaguely related one.
	near := similarity.Score("RatedVoltage", "rated_voltage_kv")
	far := similarity.Score("RatedVoltage", "manufacturer")
	assert.Greater(t, near, far)

	// Shared prefix is rewarded by the Jaro-Winkler sub-score.
	prefixed := similarity.Score("voltage", "voltages")
	scrambled := similarity.Score("voltage", "glottave")
	assert.Greater(t, prefixed, scrambled)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BUS_NAME", "bus name"},
		{"BusName", "bus name"},
		{"ratedVoltageKV", "rated voltage kv"},
		{"kV (L-L)", "k v l l"},
		{"transformer2w", "transformer 2w"},
		{"", ""},
		{"___", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, similarity.Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"BUS_NAME", []string{"bus", "name"}},
		{"fromBus", []string{"from", "bus"}},
		{"HVSide", []string{"hv", "side"}},
		{"load kW", []string{"load", "k", "w"}},
		{"x", []string{"x"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, similarity.Tokens(tt.in), "Tokens(%q)", tt.in)
	}
}
