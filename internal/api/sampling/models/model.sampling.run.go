package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loại run
const (
	RunTypeFirstSample = "first_sample" // Run định kỳ trên các activity chưa từng được sampling
	RunTypeAdhoc       = "adhoc"        // Run một lần trên khoảng ngày do người dùng chỉ định
)

// Trạng thái run
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RunFilters là các filter đã áp dụng cho một run (lưu lại để trace và làm con trỏ cho lần sau)
type RunFilters struct {
	DateFrom        int64    `json:"dateFrom,omitempty" bson:"dateFrom,omitempty"`               // Đầu khoảng ngày (Unix millis)
	DateTo          int64    `json:"dateTo,omitempty" bson:"dateTo,omitempty"`                   // Cuối khoảng ngày (Unix millis)
	LifecycleStatus string   `json:"lifecycleStatus,omitempty" bson:"lifecycleStatus,omitempty"` // Trạng thái vòng đời được lọc
	Percentage      float64  `json:"percentage,omitempty" bson:"percentage,omitempty"`           // Phần trăm sampling đã áp dụng
	Force           bool     `json:"force,omitempty" bson:"force,omitempty"`                     // Bỏ qua guard "already running"
	ActivityIDs     []string `json:"activityIds,omitempty" bson:"activityIds,omitempty"`         // Danh sách id cụ thể (ad-hoc)
}

// RunCounters là các bộ đếm tiến độ của run.
// Được cập nhật tăng dần theo từng checkpoint, không bao giờ giảm.
type RunCounters struct {
	Matched            int64 `json:"matched" bson:"matched"`                       // Số activity match predicate
	Processed          int64 `json:"processed" bson:"processed"`                   // Số activity process thành công
	TasksCreatedTotal  int64 `json:"tasksCreatedTotal" bson:"tasksCreatedTotal"`   // Tổng số call task đã tạo
	SampledActivities  int64 `json:"sampledActivities" bson:"sampledActivities"`   // Số activity chuyển sang sampled
	InactiveActivities int64 `json:"inactiveActivities" bson:"inactiveActivities"` // Số activity chuyển sang inactive
	Skipped            int64 `json:"skipped" bson:"skipped"`                       // Số activity bị bỏ qua vì hết budget
	SkippedFarmers     int64 `json:"skippedFarmers" bson:"skippedFarmers"`         // Số farmer bị loại (cooling period, trần số mẫu)
	ErrorCount         int64 `json:"errorCount" bson:"errorCount"`                 // Số lỗi per-item đã gặp
}

// SamplingRun là bản ghi của một lần chạy sampling.
// Được tạo ở trạng thái running trước khi process item đầu tiên,
// cập nhật theo checkpoint và finalize đúng một lần. Bất biến sau finalize.
// Collection: sampling_runs
type SamplingRun struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RunCode         string             `json:"runCode" bson:"runCode"` // Mã run (uuid) để trace trong log và UI
	UserID          string             `json:"userId" bson:"userId"`   // Người/scheduler khởi tạo run
	RunType         string             `json:"runType" bson:"runType"` // "first_sample", "adhoc"
	Status          string             `json:"status" bson:"status"`   // "running", "completed", "failed"
	Filters         RunFilters         `json:"filters" bson:"filters"`
	Counters        RunCounters        `json:"counters" bson:"counters"`
	Errors          []string           `json:"errors,omitempty" bson:"errors,omitempty"` // Tail các lỗi gần nhất (tối đa 50)
	LastProcessedID string             `json:"lastProcessedId,omitempty" bson:"lastProcessedId,omitempty"` // Activity cuối cùng đã process (chẩn đoán)
	LastProgressAt  int64              `json:"lastProgressAt,omitempty" bson:"lastProgressAt,omitempty"`
	StartedAt       int64              `json:"startedAt" bson:"startedAt"`
	FinishedAt      int64              `json:"finishedAt,omitempty" bson:"finishedAt,omitempty"`
	CreatedAt       int64              `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt       int64              `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
