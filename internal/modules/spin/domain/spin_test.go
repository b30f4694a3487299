package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentProbabilitiesSumToOne(t *testing.T) {
	total := 0.0
	for _, seg := range Segments {
		total += seg.Probability
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestDrawBoundaries(t *testing.T) {
	cases := []struct {
		name   string
		sample float64
		want   float64
	}{
		{"start of lose band", 0.0, 0},
		{"end of lose band", 0.599, 0},
		{"start of push band", 0.60, 1},
		{"end of push band", 0.799, 1},
		{"start of double band", 0.80, 2},
		{"end of double band", 0.949, 2},
		{"start of jackpot band", 0.95, 5},
		{"top of range", 0.999999, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Draw(tc.sample).Multiplier)
		})
	}
}
