package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái phân công của call task
const (
	TaskAssignmentUnassigned = "unassigned" // Chưa gán cho agent nào
	TaskAssignmentAssigned   = "assigned"   // Đã gán cho agent
)

// CallTask là một task gọi điện cho một farmer được chọn từ một activity.
// Chỉ được tạo bởi per-activity sampler trong một run; callLog được
// hệ thống telephony bên ngoài ghi khi có kết quả cuộc gọi.
// Collection: call_tasks
type CallTask struct {
	ID               primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	FarmerID         primitive.ObjectID     `json:"farmerId" bson:"farmerId"`
	ActivityID       primitive.ObjectID     `json:"activityId" bson:"activityId"`
	RunID            primitive.ObjectID     `json:"runId,omitempty" bson:"runId,omitempty"` // Run đã tạo task này
	AssignmentStatus string                 `json:"assignmentStatus" bson:"assignmentStatus"` // "unassigned", "assigned"
	CallLog          map[string]interface{} `json:"callLog,omitempty" bson:"callLog,omitempty"` // Kết quả cuộc gọi (nil nếu chưa gọi)
	CreatedAt        int64                  `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt        int64                  `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
