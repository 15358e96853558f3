package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentageForType(t *testing.T) {
	cfg := SamplingConfig{
		DefaultPercentage: 10,
		TypePercentages: map[string]float64{
			"demo":        25,
			"group_visit": 0, // Override 0 bị bỏ qua, dùng mặc định
		},
	}

	assert.Equal(t, float64(25), cfg.PercentageForType("demo"))
	assert.Equal(t, float64(10), cfg.PercentageForType("field_visit"))
	assert.Equal(t, float64(10), cfg.PercentageForType("group_visit"))
}

func TestPercentageForType_NilMap(t *testing.T) {
	cfg := SamplingConfig{DefaultPercentage: 15}
	assert.Equal(t, float64(15), cfg.PercentageForType("demo"))
}
