// Package database - Index cho các collection của call-sampling (compound, unique, sparse).
package database

import (
	"context"
	"strings"

	"agri_connect/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateSamplingIndexes tạo các index cho các collection sampling.
// Gọi một lần khi khởi động server, sau khi đăng ký collections.
func CreateSamplingIndexes(ctx context.Context, db *mongo.Database) error {
	// activities: (status, date) — predicate eligibility lọc theo status + khoảng ngày
	activities := db.Collection(global.ColNames.Activities)
	if _, err := activities.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "date", Value: 1},
		},
		Options: options.Index().SetName("activity_status_date"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// activities: (firstSampleRun, status, date) — query chính của first-sample run
	if _, err := activities.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "firstSampleRun", Value: 1},
			{Key: "status", Value: 1},
			{Key: "date", Value: 1},
		},
		Options: options.Index().SetName("activity_first_sample_status_date"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// activities: (type, status) — toggle eligibility theo loại activity
	if _, err := activities.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "type", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().SetName("activity_type_status"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// call_tasks: activityId — cascade delete khi reactivate
	callTasks := db.Collection(global.ColNames.CallTasks)
	if _, err := callTasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "activityId", Value: 1}},
		Options: options.Index().SetName("call_task_activity"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// call_tasks: (farmerId, createdAt) — tra cứu cooling period theo farmer
	if _, err := callTasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "farmerId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("call_task_farmer_created"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// sampling_runs: (userId, runType, status) — guard "already running" và tra cứu run gần nhất
	samplingRuns := db.Collection(global.ColNames.SamplingRuns)
	if _, err := samplingRuns.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "runType", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().SetName("sampling_run_user_type_status"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// sampling_audits: activityId — lịch sử audit theo activity
	samplingAudits := db.Collection(global.ColNames.SamplingAudits)
	if _, err := samplingAudits.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "activityId", Value: 1}},
		Options: options.Index().SetName("sampling_audit_activity"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// sampling_configs: key unique — đảm bảo singleton
	samplingConfigs := db.Collection(global.ColNames.SamplingConfigs)
	if _, err := samplingConfigs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetName("sampling_config_key").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

// isIndexExistsError kiểm tra lỗi index đã tồn tại (IndexOptionsConflict / IndexKeySpecsConflict)
func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "IndexOptionsConflict") ||
		strings.Contains(msg, "IndexKeySpecsConflict") ||
		strings.Contains(msg, "already exists")
}
