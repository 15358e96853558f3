package samplingsvc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "agri_connect/internal/api/base/service"
	samplingmodels "agri_connect/internal/api/sampling/models"
	"agri_connect/internal/global"
)

// ErrorTailStored là số lỗi per-item tối đa được lưu trên document run
const ErrorTailStored = 50

// SamplingRunService quản lý vòng đời bản ghi run: tạo ở trạng thái running,
// checkpoint tiến độ trong khi chạy, finalize đúng một lần khi kết thúc.
type SamplingRunService struct {
	*basesvc.BaseServiceMongoImpl[samplingmodels.SamplingRun]
}

// NewSamplingRunService tạo mới SamplingRunService
func NewSamplingRunService() *SamplingRunService {
	return &SamplingRunService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[samplingmodels.SamplingRun](mustCollection(global.ColNames.SamplingRuns)),
	}
}

// CreateRunning tạo bản ghi run ở trạng thái running trước khi process item đầu tiên.
// Crash sau bước này vẫn để lại dấu vết chẩn đoán được (run kẹt ở running).
func (s *SamplingRunService) CreateRunning(ctx context.Context, userID, runType string, filters samplingmodels.RunFilters, matched int64) (samplingmodels.SamplingRun, error) {
	run := samplingmodels.SamplingRun{
		RunCode:   uuid.NewString(),
		UserID:    userID,
		RunType:   runType,
		Status:    samplingmodels.RunStatusRunning,
		Filters:   filters,
		Counters:  samplingmodels.RunCounters{Matched: matched},
		StartedAt: time.Now().UnixMilli(),
	}
	return s.InsertOne(ctx, run)
}

// CheckpointProgress ghi snapshot bộ đếm, tail lỗi và con trỏ item cuối.
// Lỗi checkpoint không được làm hỏng run đang chạy nên caller chỉ log.
func (s *SamplingRunService) CheckpointProgress(ctx context.Context, runID primitive.ObjectID, counters samplingmodels.RunCounters, errs []string, lastProcessedID string) error {
	_, err := s.UpdateOne(ctx,
		bson.M{"_id": runID, "status": samplingmodels.RunStatusRunning},
		bson.M{"$set": bson.M{
			"counters":        counters,
			"errors":          errorTail(errs, ErrorTailStored),
			"lastProcessedId": lastProcessedID,
			"lastProgressAt":  time.Now().UnixMilli(),
		}},
		nil,
	)
	return err
}

// Finalize đóng run với trạng thái cuối cùng suy ra từ bộ đếm.
// Filter theo status running để finalize là thao tác một lần.
func (s *SamplingRunService) Finalize(ctx context.Context, runID primitive.ObjectID, counters samplingmodels.RunCounters, errs []string) (samplingmodels.SamplingRun, error) {
	return s.FindOneAndUpdate(ctx,
		bson.M{"_id": runID, "status": samplingmodels.RunStatusRunning},
		bson.M{"$set": bson.M{
			"status":     FinalStatus(counters),
			"counters":   counters,
			"errors":     errorTail(errs, ErrorTailStored),
			"finishedAt": time.Now().UnixMilli(),
		}},
		nil,
	)
}

// FinalStatus suy ra trạng thái cuối của run từ bộ đếm:
// failed chỉ khi không process được item nào và có ít nhất một lỗi.
// Run có lỗi lẻ tẻ nhưng vẫn có tiến độ là completed, lỗi nằm trong tail.
func FinalStatus(counters samplingmodels.RunCounters) string {
	if counters.Processed == 0 && counters.ErrorCount > 0 {
		return samplingmodels.RunStatusFailed
	}
	return samplingmodels.RunStatusCompleted
}

// errorTail giữ lại tối đa n lỗi gần nhất
func errorTail(errs []string, n int) []string {
	if len(errs) <= n {
		return errs
	}
	return errs[len(errs)-n:]
}

// LatestByUser trả về run gần nhất của user, bất kể loại và trạng thái
func (s *SamplingRunService) LatestByUser(ctx context.Context, userID string) (samplingmodels.SamplingRun, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	return s.FindOne(ctx, bson.M{"userId": userID}, opts)
}

// HasRunningRun kiểm tra user có run cùng loại đang ở trạng thái running không
func (s *SamplingRunService) HasRunningRun(ctx context.Context, userID, runType string) (bool, error) {
	return s.DocumentExists(ctx, bson.M{
		"userId":  userID,
		"runType": runType,
		"status":  samplingmodels.RunStatusRunning,
	})
}
