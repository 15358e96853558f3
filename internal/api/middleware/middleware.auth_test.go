package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	granted := []string{"CallSampling.Read", "Report.Manage"}

	assert.True(t, hasPermission(granted, "CallSampling.Read"))
	assert.False(t, hasPermission(granted, "CallSampling.Manage"))
	assert.False(t, hasPermission(nil, "CallSampling.Read"))
}

func TestHasPermission_Wildcards(t *testing.T) {
	assert.True(t, hasPermission([]string{"*"}, "CallSampling.Manage"))
	assert.True(t, hasPermission([]string{"CallSampling.*"}, "CallSampling.Manage"))
	assert.True(t, hasPermission([]string{"CallSampling.*"}, "CallSampling.Read"))
	assert.False(t, hasPermission([]string{"CallSampling.*"}, "Report.Read"))
}
