// Package samplingsvc - Test kiểm tra khoảng ngày truyền tay cho first-sample run.
package samplingsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplicitFirstSampleRange_BothBoundsAccepted(t *testing.T) {
	explicit, err := explicitFirstSampleRange(100, 200)

	require.NoError(t, err)
	assert.True(t, explicit)
}

func TestExplicitFirstSampleRange_EmptyFallsBackToResolver(t *testing.T) {
	explicit, err := explicitFirstSampleRange(0, 0)

	require.NoError(t, err)
	assert.False(t, explicit)
}

func TestExplicitFirstSampleRange_HalfOpenRejected(t *testing.T) {
	// Truyền một nửa khoảng ngày bị từ chối thay vì âm thầm resolve lại cả khoảng
	_, err := explicitFirstSampleRange(100, 0)
	assert.Error(t, err)

	_, err = explicitFirstSampleRange(0, 200)
	assert.Error(t, err)
}
