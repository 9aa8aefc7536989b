package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessDataQuality(t *testing.T) {
	tests := []struct {
		name                                   string
		interactions, practice, sessions, rate int
		wantLevel                              DataQualityLevel
		wantScore                              float64
	}{
		{"empty", 0, 0, 0, 0, QualityInsufficient, 0},
		{"some", 25, 10, 2, 0, QualityLimited, 0.43},
		{"adequate", 40, 15, 4, 2, QualityAdequate, 0.32 + 0.225 + 0.16 + 0.04},
		{"saturated", 500, 200, 40, 30, QualityGood, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := AssessDataQuality(tt.interactions, tt.practice, tt.sessions, tt.rate)
			assert.Equal(t, tt.wantLevel, q.Level)
			assert.InDelta(t, tt.wantScore, q.Score, 1e-9)
		})
	}
}
