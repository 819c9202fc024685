// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stableid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"TRISH", 407039672},
		{"TRISH_Unified_Model_v4", 717119144},
		{"", 1672528962},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ID(tt.in)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, int64(0))
			assert.Less(t, got, int64(1)<<31)
		})
	}
}

func TestID_Deterministic(t *testing.T) {
	assert.Equal(t, ID("Cardiology Deck"), ID("Cardiology Deck"))
	assert.NotEqual(t, ID("Cardiology Deck"), ID("cardiology deck"))
}

func TestOf_PartBoundaries(t *testing.T) {
	assert.Equal(t, int64(370656518), Of("ab", "c"))
	assert.Equal(t, int64(1649206498), Of("a", "bc"))
	assert.NotEqual(t, Of("ab", "c"), Of("a", "bc"))
}

func TestGUID(t *testing.T) {
	assert.Equal(t, "1400334842", GUID("TRISH", "Gout", "Diagnostics"))
	assert.NotEqual(t, GUID("TRISH", "Gout", "Diagnostics"), GUID("TRISH", "Gout", "Presentation"))
}

func TestModelID(t *testing.T) {
	assert.Equal(t, int64(717119144), ModelID("TRISH", "Unified"))
	assert.NotEqual(t, ModelID("TRISH", "Unified"), ModelID("TRISH", "Single"))
	assert.Equal(t, DeckID("TRISH"), ID("TRISH"))
}
