package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestConvertMongoError_Nil(t *testing.T) {
	assert.NoError(t, ConvertMongoError(nil))
}

func TestConvertMongoError_NotFoundPassthrough(t *testing.T) {
	err := ConvertMongoError(ErrNotFound)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestConvertMongoError_CommandErrorRanges(t *testing.T) {
	cases := []struct {
		code     int32
		expected error
	}{
		{150, ErrMongoConnection},
		{350, ErrMongoQuery},
		{450, ErrMongoWrite},
		{550, ErrMongoSystem},
	}
	for _, tc := range cases {
		err := ConvertMongoError(mongo.CommandError{Code: tc.code})
		assert.True(t, errors.Is(err, tc.expected), "code %d", tc.code)
	}
}

func TestConvertMongoError_UnknownWrapped(t *testing.T) {
	err := ConvertMongoError(fmt.Errorf("lỗi lạ"))

	var appErr *Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrCodeDatabase.Code, appErr.Code.Code)
	assert.Equal(t, StatusInternalServerError, appErr.StatusCode)
}

func TestErrorIs_MatchesCodeAndMessage(t *testing.T) {
	err := NewError(ErrCodeBusinessState, "trạng thái sai", StatusConflict, nil)
	same := NewError(ErrCodeBusinessState, "trạng thái sai", StatusConflict, "chi tiết khác")
	other := NewError(ErrCodeBusinessState, "thông điệp khác", StatusConflict, nil)

	assert.True(t, errors.Is(err, same))
	assert.False(t, errors.Is(err, other))
}
