package samplingsvc

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "agri_connect/internal/api/base/service"
	samplingdto "agri_connect/internal/api/sampling/dto"
	samplingmodels "agri_connect/internal/api/sampling/models"
	"agri_connect/internal/common"
	"agri_connect/internal/global"
)

// Nguồn của khoảng ngày đã resolve
const (
	RangeSourceAuto      = "auto"      // Tiếp nối run trước, chồng lấn 1 ngày
	RangeSourceSuggested = "suggested" // Span của backlog chưa từng được sampling
	RangeSourceFallback  = "fallback"  // Cửa sổ 30 ngày gần nhất
)

// FallbackWindowDays là độ rộng cửa sổ khi không có dữ liệu để suy ra khoảng ngày
const FallbackWindowDays = 30

// RangeResolverService suy ra khoảng ngày cho first-sample run và
// dựng filter eligibility dùng chung cho run, auto-run gate và range preview.
type RangeResolverService struct {
	activities *basesvc.BaseServiceMongoImpl[samplingmodels.Activity]
	runs       *basesvc.BaseServiceMongoImpl[samplingmodels.SamplingRun]
	configSvc  *SamplingConfigService
}

// NewRangeResolverService tạo mới RangeResolverService
func NewRangeResolverService(configSvc *SamplingConfigService) *RangeResolverService {
	return &RangeResolverService{
		activities: basesvc.NewBaseServiceMongo[samplingmodels.Activity](mustCollection(global.ColNames.Activities)),
		runs:       basesvc.NewBaseServiceMongo[samplingmodels.SamplingRun](mustCollection(global.ColNames.SamplingRuns)),
		configSvc:  configSvc,
	}
}

// startOfDayMillis đưa một mốc Unix millis về 00:00:00.000 UTC cùng ngày
func startOfDayMillis(ms int64) int64 {
	t := time.UnixMilli(ms).UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.UnixMilli()
}

// endOfDayMillis đưa một mốc Unix millis về 23:59:59.999 UTC cùng ngày
func endOfDayMillis(ms int64) int64 {
	return startOfDayMillis(ms) + 24*time.Hour.Milliseconds() - 1
}

// followUpRange là khoảng ngày tiếp nối một run trước đó:
// từ đầu ngày của dateTo run trước (chồng lấn 1 ngày, không để lọt
// activity được tạo muộn trong ngày biên) đến cuối ngày hôm nay.
func followUpRange(lastDateTo int64, now time.Time) (int64, int64) {
	return startOfDayMillis(lastDateTo), endOfDayMillis(now.UnixMilli())
}

// fallbackRange là cửa sổ 30 ngày gần nhất, dùng khi không có run trước
// và cũng không có backlog để suy ra khoảng ngày.
func fallbackRange(now time.Time) (int64, int64) {
	from := now.UTC().AddDate(0, 0, -FallbackWindowDays)
	return startOfDayMillis(from.UnixMilli()), endOfDayMillis(now.UnixMilli())
}

// BuildEligibilityFilter dựng filter Mongo cho các activity đủ điều kiện
// first-sample: chưa từng được sampling, đang active, có ít nhất một farmer,
// nằm trong khoảng ngày, và thuộc loại được phép (nếu danh sách không rỗng).
func BuildEligibilityFilter(dateFrom, dateTo int64, eligibleTypes []string) bson.M {
	filter := bson.M{
		"firstSampleRun": false,
		"status":         samplingmodels.ActivityStatusActive,
		"farmers.0":      bson.M{"$exists": true},
	}
	dateRange := bson.M{}
	if dateFrom > 0 {
		dateRange["$gte"] = dateFrom
	}
	if dateTo > 0 {
		dateRange["$lte"] = dateTo
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}
	if len(eligibleTypes) > 0 {
		filter["type"] = bson.M{"$in": eligibleTypes}
	}
	return filter
}

// LatestFirstSampleRun trả về first-sample run gần nhất của user,
// common.ErrNotFound nếu user chưa từng chạy.
func (s *RangeResolverService) LatestFirstSampleRun(ctx context.Context, userID string) (samplingmodels.SamplingRun, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	return s.runs.FindOne(ctx, bson.M{
		"userId":  userID,
		"runType": samplingmodels.RunTypeFirstSample,
	}, opts)
}

// ResolveFirstSampleRange suy ra khoảng ngày cho first-sample run tiếp theo:
//  1. Có run trước với dateTo: tiếp nối từ đầu ngày dateTo đó đến cuối hôm nay.
//  2. Chưa có run trước: span [min, max] ngày của backlog đủ điều kiện.
//  3. Không có backlog: cửa sổ 30 ngày gần nhất.
//
// Kèm theo số activity match trong khoảng đã chọn để UI hiển thị preview.
func (s *RangeResolverService) ResolveFirstSampleRange(ctx context.Context, userID string) (samplingdto.FirstSampleRangeResult, error) {
	cfg, err := s.configSvc.GetOrCreateDefault(ctx)
	if err != nil {
		return samplingdto.FirstSampleRangeResult{}, err
	}

	now := time.Now()
	result := samplingdto.FirstSampleRangeResult{}

	lastRun, err := s.LatestFirstSampleRun(ctx, userID)
	switch {
	case err == nil && lastRun.Filters.DateTo > 0:
		result.DateFrom, result.DateTo = followUpRange(lastRun.Filters.DateTo, now)
		result.Source = RangeSourceAuto
	case err != nil && !errors.Is(err, common.ErrNotFound):
		return samplingdto.FirstSampleRangeResult{}, err
	default:
		from, to, found, err := s.backlogSpan(ctx, cfg.EligibleTypes)
		if err != nil {
			return samplingdto.FirstSampleRangeResult{}, err
		}
		if found {
			result.DateFrom, result.DateTo = startOfDayMillis(from), endOfDayMillis(to)
			result.Source = RangeSourceSuggested
		} else {
			result.DateFrom, result.DateTo = fallbackRange(now)
			result.Source = RangeSourceFallback
		}
	}

	matched, err := s.activities.CountDocuments(ctx, BuildEligibilityFilter(result.DateFrom, result.DateTo, cfg.EligibleTypes))
	if err != nil {
		return samplingdto.FirstSampleRangeResult{}, err
	}
	result.MatchedCount = matched
	return result, nil
}

// backlogSpan tìm [min, max] ngày của các activity đủ điều kiện nhưng
// chưa từng được sampling, không giới hạn khoảng ngày.
func (s *RangeResolverService) backlogSpan(ctx context.Context, eligibleTypes []string) (int64, int64, bool, error) {
	pipeline := []bson.M{
		{"$match": BuildEligibilityFilter(0, 0, eligibleTypes)},
		{"$group": bson.M{
			"_id":     nil,
			"minDate": bson.M{"$min": "$date"},
			"maxDate": bson.M{"$max": "$date"},
		}},
	}
	cursor, err := s.activities.Collection().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, false, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var spans []struct {
		MinDate int64 `bson:"minDate"`
		MaxDate int64 `bson:"maxDate"`
	}
	if err := cursor.All(ctx, &spans); err != nil {
		return 0, 0, false, common.ConvertMongoError(err)
	}
	if len(spans) == 0 {
		return 0, 0, false, nil
	}
	return spans[0].MinDate, spans[0].MaxDate, true, nil
}

// CountEligible đếm số activity đủ điều kiện trong một khoảng ngày
func (s *RangeResolverService) CountEligible(ctx context.Context, dateFrom, dateTo int64, eligibleTypes []string) (int64, error) {
	return s.activities.CountDocuments(ctx, BuildEligibilityFilter(dateFrom, dateTo, eligibleTypes))
}
