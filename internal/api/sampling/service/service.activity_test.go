// Package samplingsvc - Test các filter của eligibility và reactivate.
package samplingsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	samplingdto "agri_connect/internal/api/sampling/dto"
	samplingmodels "agri_connect/internal/api/sampling/models"
)

func TestReactivateFilter_ByIds(t *testing.T) {
	id1, id2 := primitive.NewObjectID(), primitive.NewObjectID()
	filter, err := reactivateFilter(samplingdto.ReactivateSelector{
		ActivityIDs: []string{id1.Hex(), id2.Hex()},
	})

	require.NoError(t, err)
	assert.Equal(t, bson.M{"_id": bson.M{"$in": []primitive.ObjectID{id1, id2}}}, filter)
}

func TestReactivateFilter_InvalidIdRejected(t *testing.T) {
	_, err := reactivateFilter(samplingdto.ReactivateSelector{
		ActivityIDs: []string{"not-a-hex"},
	})
	assert.Error(t, err)
}

func TestReactivateFilter_ByStatusAndDateRange(t *testing.T) {
	filter, err := reactivateFilter(samplingdto.ReactivateSelector{
		Status:   samplingmodels.ActivityStatusSampled,
		DateFrom: 100,
		DateTo:   200,
	})

	require.NoError(t, err)
	assert.Equal(t, samplingmodels.ActivityStatusSampled, filter["status"])
	assert.Equal(t, bson.M{"$gte": int64(100), "$lte": int64(200)}, filter["date"])
}

func TestReactivateFilter_EmptySelectorRejected(t *testing.T) {
	_, err := reactivateFilter(samplingdto.ReactivateSelector{})
	assert.Error(t, err, "selector rỗng phải bị từ chối để không quét cả collection")
}

func TestReactivateFilter_StatusWithoutDates(t *testing.T) {
	filter, err := reactivateFilter(samplingdto.ReactivateSelector{
		Status: samplingmodels.ActivityStatusInactive,
	})

	require.NoError(t, err)
	_, hasDate := filter["date"]
	assert.False(t, hasDate)
}

func TestEligibilityDisableFilter_OnlyTouchesActive(t *testing.T) {
	filter := eligibilityDisableFilter([]string{"field_visit"})

	// Chỉ active mới match: sampled được bảo vệ, inactive giữ nguyên
	assert.Equal(t, samplingmodels.ActivityStatusActive, filter["status"])
	assert.Equal(t, bson.M{"$nin": []string{"field_visit"}}, filter["type"])
}

func TestEligibilityDisableFilter_EmptyTypesDisablesAllActive(t *testing.T) {
	filter := eligibilityDisableFilter(nil)

	assert.Equal(t, bson.M{"status": samplingmodels.ActivityStatusActive}, filter,
		"danh sách rỗng tắt mọi loại nhưng vẫn chỉ đụng đến active")
}

func TestEligibilityEnableFilter_OnlyRestoresNotEligible(t *testing.T) {
	filter := eligibilityEnableFilter([]string{"field_visit", "training"})

	assert.Equal(t, samplingmodels.ActivityStatusNotEligible, filter["status"])
	assert.Equal(t, bson.M{"$in": []string{"field_visit", "training"}}, filter["type"])
}

func TestEligibilityFilters_DisableThenEnableIsRoundTrip(t *testing.T) {
	types := []string{"field_visit"}

	// Tắt rồi bật lại cùng danh sách loại phải là no-op trên mọi trạng thái
	// ngoài active: disable chỉ match active, enable chỉ match not_eligible,
	// nên inactive và sampled không bao giờ đi qua cặp transition này.
	disable := eligibilityDisableFilter(types)
	enable := eligibilityEnableFilter(types)

	for _, status := range []string{
		samplingmodels.ActivityStatusInactive,
		samplingmodels.ActivityStatusSampled,
	} {
		assert.NotEqual(t, status, disable["status"], "disable không được match "+status)
		assert.NotEqual(t, status, enable["status"], "enable không được match "+status)
	}
	// Và active đi qua cặp transition trở về đúng active
	assert.Equal(t, samplingmodels.ActivityStatusActive, disable["status"])
	assert.Equal(t, samplingmodels.ActivityStatusNotEligible, enable["status"])
}

func TestReactivateTaskDeleteFilter_NeverMatchesTasksWithCallLog(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID()}
	filter := reactivateTaskDeleteFilter(ids)

	assert.Equal(t, bson.M{"$in": ids}, filter["activityId"])
	// callLog nil match field thiếu lẫn null; document có callLog không match
	callLog, ok := filter["callLog"]
	require.True(t, ok)
	assert.Nil(t, callLog)
}

func TestReactivatePreservedTaskFilter_MatchesOnlyTasksWithCallLog(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	filter := reactivatePreservedTaskFilter(ids)

	assert.Equal(t, bson.M{"$in": ids}, filter["activityId"])
	assert.Equal(t, bson.M{"$ne": nil}, filter["callLog"])
}

func TestReactivateCascadeFilters_PartitionTasks(t *testing.T) {
	// Hai filter phải là phân hoạch trên callLog: một task match đúng một trong hai
	ids := []primitive.ObjectID{primitive.NewObjectID()}
	del := reactivateTaskDeleteFilter(ids)
	preserved := reactivatePreservedTaskFilter(ids)

	assert.Nil(t, del["callLog"])
	assert.Equal(t, bson.M{"$ne": nil}, preserved["callLog"])
	assert.Equal(t, del["activityId"], preserved["activityId"])
}
