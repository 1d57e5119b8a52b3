package metadata_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"initializr/internal/metadata"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int // sign only
	}{
		{"3.2.1", "3.2.1", 0},
		{"3.2.0", "3.2.1", -1},
		{"3.10.0", "3.9.9", 1},
		{"3.2.0-SNAPSHOT", "3.2.0", -1},
		{"3.2.0-M1", "3.2.0-RC1", -1},
		{"3.2.0-RC1", "3.2.0-SNAPSHOT", -1},
		{"2.4.0.BUILD-SNAPSHOT", "2.4.0.RELEASE", -1},
		{"2.4.0.BUILD-SNAPSHOT", "2.4.0-SNAPSHOT", -1},
		{"2.4.0.RELEASE", "2.4.0", 0},
		{"3.2.0-M2", "3.2.0-M1", 1},
		{"2.0.0-M10", "2.0.0-M9", 1},
		{"2.0.0.RC2", "2.0.0.RC10", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			got := metadata.CompareVersions(tt.a, tt.b)
			switch {
			case tt.want < 0:
				assert.Negative(t, got)
			case tt.want > 0:
				assert.Positive(t, got)
			default:
				assert.Zero(t, got)
			}
		})
	}
}

func TestMatchRange(t *testing.T) {
	tests := []struct {
		version, rng string
		want         bool
	}{
		{"3.2.1", "[3.0.0,3.3.0-M1)", true},
		{"3.3.0", "[3.0.0,3.3.0-M1)", false},
		{"3.3.0-M1", "[3.0.0,3.3.0-M1)", false},
		{"3.3.0", "[3.0.0,3.3.0]", true},
		{"3.0.0", "(3.0.0,3.3.0]", false},
		{"3.0.1", "(3.0.0,3.3.0]", true},
		{"3.0.0", "3.0.0", true},
		{"2.7.18", "3.0.0", false},
		{"3.1.0", "3.0.0.RELEASE", true},
	}
	for _, tt := range tests {
		t.Run(tt.version+" in "+tt.rng, func(t *testing.T) {
			assert.Equal(t, tt.want, metadata.MatchRange(tt.version, tt.rng))
		})
	}
}
