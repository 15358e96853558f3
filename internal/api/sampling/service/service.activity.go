package samplingsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "agri_connect/internal/api/base/models"
	basesvc "agri_connect/internal/api/base/service"
	samplingdto "agri_connect/internal/api/sampling/dto"
	samplingmodels "agri_connect/internal/api/sampling/models"
	"agri_connect/internal/common"
	"agri_connect/internal/global"
)

// ActivityService quản lý vòng đời activity ngoài phạm vi một run:
// áp dụng eligibility theo loại, reactivate thủ công, thống kê và liệt kê.
type ActivityService struct {
	*basesvc.BaseServiceMongoImpl[samplingmodels.Activity]
	tasks     *basesvc.BaseServiceMongoImpl[samplingmodels.CallTask]
	audits    *basesvc.BaseServiceMongoImpl[samplingmodels.SamplingAudit]
	configSvc *SamplingConfigService
}

// NewActivityService tạo mới ActivityService
func NewActivityService(configSvc *SamplingConfigService) *ActivityService {
	return &ActivityService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[samplingmodels.Activity](mustCollection(global.ColNames.Activities)),
		tasks:                basesvc.NewBaseServiceMongo[samplingmodels.CallTask](mustCollection(global.ColNames.CallTasks)),
		audits:               basesvc.NewBaseServiceMongo[samplingmodels.SamplingAudit](mustCollection(global.ColNames.SamplingAudits)),
		configSvc:            configSvc,
	}
}

// eligibilityDisableFilter chọn activity cần chuyển sang not_eligible:
// đang active và loại nằm ngoài danh sách cho phép. Chỉ đụng đến active
// để tắt rồi bật lại cùng một danh sách loại không làm đổi trạng thái nào
// khác: sampled được bảo vệ, inactive giữ nguyên.
func eligibilityDisableFilter(eligibleTypes []string) bson.M {
	filter := bson.M{"status": samplingmodels.ActivityStatusActive}
	if len(eligibleTypes) > 0 {
		filter["type"] = bson.M{"$nin": eligibleTypes}
	}
	return filter
}

// eligibilityEnableFilter chọn activity not_eligible có loại trong danh sách cho phép
func eligibilityEnableFilter(eligibleTypes []string) bson.M {
	return bson.M{
		"type":   bson.M{"$in": eligibleTypes},
		"status": samplingmodels.ActivityStatusNotEligible,
	}
}

// ApplyEligibility áp dụng danh sách loại được phép lên toàn bộ activity:
// activity active có loại ngoài danh sách chuyển sang not_eligible,
// loại trong danh sách đang not_eligible được trả về active.
// Danh sách rỗng nghĩa là tắt tất cả các loại.
func (s *ActivityService) ApplyEligibility(ctx context.Context, eligibleTypes []string) (*samplingdto.ApplyEligibilityResult, error) {
	if eligibleTypes == nil {
		eligibleTypes = []string{}
	}

	disabled, err := s.UpdateMany(ctx, eligibilityDisableFilter(eligibleTypes),
		bson.M{"$set": bson.M{"status": samplingmodels.ActivityStatusNotEligible}}, nil)
	if err != nil {
		return nil, err
	}

	var enabled int64
	if len(eligibleTypes) > 0 {
		enabled, err = s.UpdateMany(ctx, eligibilityEnableFilter(eligibleTypes),
			bson.M{"$set": bson.M{"status": samplingmodels.ActivityStatusActive}}, nil)
		if err != nil {
			return nil, err
		}
	}

	if _, err := s.configSvc.SetEligibleTypes(ctx, eligibleTypes); err != nil {
		return nil, err
	}

	return &samplingdto.ApplyEligibilityResult{
		Disabled: disabled,
		Enabled:  enabled,
	}, nil
}

// reactivateFilter dựng filter chọn activity cần reactivate:
// theo danh sách id, hoặc theo status kèm khoảng ngày tùy chọn.
// Selector rỗng bị từ chối để không reactivate nhầm cả collection.
func reactivateFilter(sel samplingdto.ReactivateSelector) (bson.M, error) {
	if len(sel.ActivityIDs) > 0 {
		objectIDs := make([]primitive.ObjectID, 0, len(sel.ActivityIDs))
		for _, hex := range sel.ActivityIDs {
			id, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				return nil, common.NewError(common.ErrCodeValidationFormat,
					"activityIds chứa id không hợp lệ", common.StatusBadRequest, hex)
			}
			objectIDs = append(objectIDs, id)
		}
		return bson.M{"_id": bson.M{"$in": objectIDs}}, nil
	}

	if sel.Status == "" {
		return nil, common.NewError(common.ErrCodeValidationInput,
			"Cần activityIds hoặc status để chọn activity reactivate", common.StatusBadRequest, nil)
	}
	filter := bson.M{"status": sel.Status}
	dateRange := bson.M{}
	if sel.DateFrom > 0 {
		dateRange["$gte"] = sel.DateFrom
	}
	if sel.DateTo > 0 {
		dateRange["$lte"] = sel.DateTo
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}
	return filter, nil
}

// reactivateTaskDeleteFilter chọn task chưa có kết quả gọi của các activity.
// callLog nil match cả field thiếu lẫn null, nên task đã có callLog
// không bao giờ match filter này.
func reactivateTaskDeleteFilter(ids []primitive.ObjectID) bson.M {
	return bson.M{
		"activityId": bson.M{"$in": ids},
		"callLog":    nil,
	}
}

// reactivatePreservedTaskFilter chọn task đã có kết quả gọi, luôn được giữ lại
func reactivatePreservedTaskFilter(ids []primitive.ObjectID) bson.M {
	return bson.M{
		"activityId": bson.M{"$in": ids},
		"callLog":    bson.M{"$ne": nil},
	}
}

// matchedActivityIDs lấy danh sách _id match selector, giới hạn BulkRunCap
func (s *ActivityService) matchedActivityIDs(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetLimit(BulkRunCap)
	matched, err := s.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(matched))
	for _, a := range matched {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// ReactivatePreview là dry-run của reactivate: đếm activity match,
// task có/không có kết quả gọi và bản ghi audit liên quan, không sửa gì.
func (s *ActivityService) ReactivatePreview(ctx context.Context, sel samplingdto.ReactivateSelector) (*samplingdto.ReactivatePreviewResult, error) {
	filter, err := reactivateFilter(sel)
	if err != nil {
		return nil, err
	}
	ids, err := s.matchedActivityIDs(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &samplingdto.ReactivatePreviewResult{}, nil
	}

	withCalls, err := s.tasks.CountDocuments(ctx, reactivatePreservedTaskFilter(ids))
	if err != nil {
		return nil, err
	}
	withoutCalls, err := s.tasks.CountDocuments(ctx, reactivateTaskDeleteFilter(ids))
	if err != nil {
		return nil, err
	}
	auditCount, err := s.audits.CountDocuments(ctx, bson.M{"activityId": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	return &samplingdto.ReactivatePreviewResult{
		MatchedActivities: int64(len(ids)),
		TasksWithCalls:    withCalls,
		TasksWithoutCalls: withoutCalls,
		AuditRecords:      auditCount,
	}, nil
}

// Reactivate đưa các activity match selector về active và reset firstSampleRun
// để run sau có thể chọn lại. Cascade xóa là tùy chọn và có chọn lọc:
// task đã có callLog không bao giờ bị xóa vì kết quả gọi là dữ liệu nghiệp vụ.
func (s *ActivityService) Reactivate(ctx context.Context, input samplingdto.ReactivateInput) (*samplingdto.ReactivateResult, error) {
	filter, err := reactivateFilter(input.ReactivateSelector)
	if err != nil {
		return nil, err
	}
	ids, err := s.matchedActivityIDs(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &samplingdto.ReactivateResult{}, nil
	}

	reactivated, err := s.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{
			"status":         samplingmodels.ActivityStatusActive,
			"firstSampleRun": false,
		}}, nil)
	if err != nil {
		return nil, err
	}

	result := &samplingdto.ReactivateResult{ReactivatedActivities: reactivated}

	if input.DeleteExistingTasks {
		deleted, err := s.tasks.DeleteMany(ctx, reactivateTaskDeleteFilter(ids))
		if err != nil {
			return nil, err
		}
		result.DeletedTasks = deleted
	}
	preserved, err := s.tasks.CountDocuments(ctx, reactivatePreservedTaskFilter(ids))
	if err != nil {
		return nil, err
	}
	result.PreservedTasks = preserved

	if input.DeleteAuditHistory {
		deletedAudits, err := s.audits.DeleteMany(ctx, bson.M{"activityId": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		result.DeletedAudits = deletedAudits
	}

	return result, nil
}

// ListActivities liệt kê activity có phân trang, lọc theo status, loại và khoảng ngày
func (s *ActivityService) ListActivities(ctx context.Context, q samplingdto.ActivityListQuery) (*basemodels.PaginateResult[samplingmodels.Activity], error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	dateRange := bson.M{}
	if q.DateFrom > 0 {
		dateRange["$gte"] = q.DateFrom
	}
	if q.DateTo > 0 {
		dateRange["$lte"] = q.DateTo
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return s.FindWithPagination(ctx, filter, q.Page, q.Limit, opts)
}

// Stats tổng hợp số liệu activity theo (loại, trạng thái) và call task
// theo trạng thái phân công, lọc theo khoảng ngày activity nếu truyền.
func (s *ActivityService) Stats(ctx context.Context, q samplingdto.StatsQuery) (*samplingdto.StatsResult, error) {
	match := bson.M{}
	dateRange := bson.M{}
	if q.DateFrom > 0 {
		dateRange["$gte"] = q.DateFrom
	}
	if q.DateTo > 0 {
		dateRange["$lte"] = q.DateTo
	}
	if len(dateRange) > 0 {
		match["date"] = dateRange
	}

	activityPipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":          bson.M{"type": "$type", "status": "$status"},
			"activities":   bson.M{"$sum": 1},
			"totalFarmers": bson.M{"$sum": bson.M{"$size": "$farmers"}},
		}},
		{"$project": bson.M{
			"_id":          0,
			"type":         "$_id.type",
			"status":       "$_id.status",
			"activities":   1,
			"totalFarmers": 1,
		}},
		{"$sort": bson.M{"type": 1, "status": 1}},
	}
	cursor, err := s.Collection().Aggregate(ctx, activityPipeline)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	var activityStats []samplingdto.TypeStats
	if err := cursor.All(ctx, &activityStats); err != nil {
		cursor.Close(ctx)
		return nil, common.ConvertMongoError(err)
	}

	taskPipeline := []bson.M{
		{"$group": bson.M{
			"_id":   "$assignmentStatus",
			"count": bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"_id": 1}},
	}
	taskCursor, err := s.tasks.Collection().Aggregate(ctx, taskPipeline)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	var taskStats []samplingdto.TaskStats
	if err := taskCursor.All(ctx, &taskStats); err != nil {
		taskCursor.Close(ctx)
		return nil, common.ConvertMongoError(err)
	}

	if activityStats == nil {
		activityStats = []samplingdto.TypeStats{}
	}
	if taskStats == nil {
		taskStats = []samplingdto.TaskStats{}
	}
	return &samplingdto.StatsResult{
		Activities: activityStats,
		Tasks:      taskStats,
	}, nil
}

// ListAudits liệt kê lịch sử audit có phân trang, lọc theo activity nếu truyền
func (s *ActivityService) ListAudits(ctx context.Context, q samplingdto.AuditListQuery) (*basemodels.PaginateResult[samplingmodels.SamplingAudit], error) {
	filter := bson.M{}
	if q.ActivityID != "" {
		id, err := primitive.ObjectIDFromHex(q.ActivityID)
		if err != nil {
			return nil, common.ErrInvalidFormat
		}
		filter["activityId"] = id
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.audits.FindWithPagination(ctx, filter, q.Page, q.Limit, opts)
}
