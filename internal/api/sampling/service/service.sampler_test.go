// Package samplingsvc - Test tính số farmer cần chọn và chọn ngẫu nhiên.
package samplingsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func int64Ptr(v int64) *int64 { return &v }

func TestComputeSampleSize_CeilOfPercentage(t *testing.T) {
	// 10% của 17 → ceil(1.7) = 2
	assert.Equal(t, int64(2), computeSampleSize(17, 10, nil, nil))
	// 10% của 10 → đúng 1
	assert.Equal(t, int64(1), computeSampleSize(10, 10, nil, nil))
	// 100% lấy tất cả
	assert.Equal(t, int64(7), computeSampleSize(7, 100, nil, nil))
}

func TestComputeSampleSize_MinFloor(t *testing.T) {
	// 1% của 10 → ceil(0.1) = 1, sàn 3 nâng lên 3
	assert.Equal(t, int64(3), computeSampleSize(10, 1, int64Ptr(3), nil))
	// Sàn không vượt số farmer khả dụng
	assert.Equal(t, int64(2), computeSampleSize(2, 1, int64Ptr(5), nil))
}

func TestComputeSampleSize_MaxCap(t *testing.T) {
	// 50% của 20 → 10, trần 4 chặn xuống 4
	assert.Equal(t, int64(4), computeSampleSize(20, 50, nil, int64Ptr(4)))
	// Trần áp sau sàn: budget thắng
	assert.Equal(t, int64(2), computeSampleSize(20, 1, int64Ptr(5), int64Ptr(2)))
	// Trần 0: không chọn gì
	assert.Equal(t, int64(0), computeSampleSize(20, 50, nil, int64Ptr(0)))
}

func TestComputeSampleSize_NoEligibleFarmers(t *testing.T) {
	assert.Equal(t, int64(0), computeSampleSize(0, 50, int64Ptr(1), nil))
}

func TestPickRandom(t *testing.T) {
	farmers := make([]primitive.ObjectID, 10)
	index := make(map[primitive.ObjectID]struct{}, 10)
	for i := range farmers {
		farmers[i] = primitive.NewObjectID()
		index[farmers[i]] = struct{}{}
	}

	picked := pickRandom(farmers, 4)
	assert.Len(t, picked, 4)

	// Mọi phần tử được chọn phải đến từ slice gốc, không trùng nhau
	seen := make(map[primitive.ObjectID]struct{}, len(picked))
	for _, id := range picked {
		_, fromSource := index[id]
		assert.True(t, fromSource)
		_, dup := seen[id]
		assert.False(t, dup, "phần tử bị chọn trùng")
		seen[id] = struct{}{}
	}

	// n >= len trả về đủ danh sách
	assert.Len(t, pickRandom(farmers, 10), 10)
	assert.Len(t, pickRandom(farmers, 99), 10)
}
