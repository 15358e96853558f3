package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConfigKeyDefault là key của document cấu hình singleton
const ConfigKeyDefault = "default"

// AutoRunBookkeeping lưu kết quả lần auto-run gần nhất (cho observability)
type AutoRunBookkeeping struct {
	At           int64 `json:"at" bson:"at"` // Thời điểm chạy (Unix millis)
	Matched      int64 `json:"matched" bson:"matched"`
	Processed    int64 `json:"processed" bson:"processed"`
	TasksCreated int64 `json:"tasksCreated" bson:"tasksCreated"`
}

// SamplingConfig là cấu hình sampling, singleton với key "default".
// Chỉ được sửa qua endpoint cập nhật cấu hình hoặc bookkeeping của auto-run.
// Collection: sampling_configs
type SamplingConfig struct {
	ID                primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Key               string             `json:"key" bson:"key"` // Luôn là "default"
	DefaultPercentage float64            `json:"defaultPercentage" bson:"defaultPercentage"` // Phần trăm sampling mặc định (0-100)
	TypePercentages   map[string]float64 `json:"typePercentages,omitempty" bson:"typePercentages,omitempty"` // Override phần trăm theo loại activity
	EligibleTypes     []string           `json:"eligibleTypes" bson:"eligibleTypes"` // Các loại activity được phép sampling
	CoolingDays       int                `json:"coolingDays" bson:"coolingDays"`     // Số ngày không chọn lại farmer đã có task gần đây

	// Auto-run
	AutoRunEnabled        bool                `json:"autoRunEnabled" bson:"autoRunEnabled"`
	AutoRunThreshold      int64               `json:"autoRunThreshold" bson:"autoRunThreshold"`           // Số activity backlog tối thiểu để auto-run
	AutoRunActivationDate int64               `json:"autoRunActivationDate,omitempty" bson:"autoRunActivationDate,omitempty"` // Không auto-run trước ngày này (Unix millis, 0 = không giới hạn)
	LastAutoRun           *AutoRunBookkeeping `json:"lastAutoRun,omitempty" bson:"lastAutoRun,omitempty"`

	CreatedAt int64 `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt int64 `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// PercentageForType trả về phần trăm sampling cho một loại activity:
// override theo loại nếu có, ngược lại dùng mặc định.
func (c *SamplingConfig) PercentageForType(activityType string) float64 {
	if pct, ok := c.TypePercentages[activityType]; ok && pct > 0 {
		return pct
	}
	return c.DefaultPercentage
}
