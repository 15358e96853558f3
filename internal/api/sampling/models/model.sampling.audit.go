package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SamplingAudit là bản ghi bất biến về kết quả sampling của một activity trong một run.
// Ghi đúng một lần per activity per run bởi per-activity sampler, không bao giờ sửa.
// Collection: sampling_audits
type SamplingAudit struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ActivityID   primitive.ObjectID `json:"activityId" bson:"activityId"`
	RunID        primitive.ObjectID `json:"runId,omitempty" bson:"runId,omitempty"`
	Percentage   float64            `json:"percentage" bson:"percentage"`     // Phần trăm đã áp dụng
	TotalFarmers int64              `json:"totalFarmers" bson:"totalFarmers"` // Tổng số farmer của activity
	SampledCount int64              `json:"sampledCount" bson:"sampledCount"` // Số farmer được chọn
	CreatedAt    int64              `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt    int64              `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
