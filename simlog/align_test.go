package simlog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference_SkipsHeaderLines(t *testing.T) {
	input := "# reference export\ntimestamp,bytes\n5000,10\n7000, 25\n12500,40\n\n"

	rows, err := ParseReference(strings.NewReader(input), "ref.csv")

	require.NoError(t, err)
	assert.Equal(t, []ReferenceRow{{5000, 10}, {7000, 25}, {12500, 40}}, rows)
}

func TestParseReference_HeaderOnly_IsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no input", ""},
		{"short header", "only one line\n"},
		{"header without rows", "a\nb\n"},
		{"header without final newline", "a\nb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseReference(strings.NewReader(tc.input), "ref.csv")

			var ere *EmptyReferenceError
			require.ErrorAs(t, err, &ere)
			assert.Equal(t, "ref.csv", ere.Source)
		})
	}
}

func TestParseReference_MalformedRow(t *testing.T) {
	_, err := ParseReference(strings.NewReader("h1\nh2\n5000,10\n7000,abc\n"), "ref.csv")

	var mre *MalformedRecordError
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, 1, mre.Index)

	_, err = ParseReference(strings.NewReader("h1\nh2\n5000\n"), "ref.csv")
	require.ErrorAs(t, err, &mre)
	assert.Equal(t, 0, mre.Index)
}

func TestAlignTraffic_RebasesReferenceToZero(t *testing.T) {
	// GIVEN a reference with first row (5000, 10) and second row (7000, 25)
	reference := []ReferenceRow{{5000, 10}, {7000, 25}, {12500, 40}}
	sim := []Bucket{{Floor: 3600, Value: 4}, {Floor: 3700, Value: 9}}

	// WHEN aligned with a sim series starting at tick 3600
	pair, err := AlignTraffic(sim, 3600, reference)
	require.NoError(t, err)

	// THEN the reference starts at x = 0 with seconds on the axis and untouched y
	assert.Equal(t, RefTrafficSeriesName, pair.Reference.Name)
	assert.Equal(t, []float64{0, 2, 7.5}, pair.Reference.X)
	assert.Equal(t, []float64{10, 25, 40}, pair.Reference.Y)

	// AND the sim series also starts at x = 0, keeping its own step and length
	assert.Equal(t, SimTrafficSeriesName, pair.Sim.Name)
	assert.Equal(t, []float64{0, 100}, pair.Sim.X)
	assert.Equal(t, []float64{4, 9}, pair.Sim.Y)
}

func TestAlignTraffic_EmptyReference(t *testing.T) {
	_, err := AlignTraffic([]Bucket{{0, 1}}, 0, nil)

	var ere *EmptyReferenceError
	assert.ErrorAs(t, err, &ere)
}
