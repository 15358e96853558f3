package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái vòng đời của activity.
// "sampled" là trạng thái được bảo vệ: không process tự động nào được
// đưa activity ra khỏi sampled, ngoại trừ reactivate thủ công.
const (
	ActivityStatusActive      = "active"       // Đủ điều kiện sampling
	ActivityStatusSampled     = "sampled"      // Đã sampling, có task được tạo (terminal)
	ActivityStatusInactive    = "inactive"     // Đã process nhưng không có farmer nào được chọn
	ActivityStatusNotEligible = "not_eligible" // Loại activity bị tắt trong cấu hình
)

// Activity lưu một hoạt động hiện trường (field visit, group meeting, demo)
// cùng danh sách farmer tham dự.
// Collection: activities
type Activity struct {
	ID             primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Type           string               `json:"type" bson:"type"`                     // Loại activity (ví dụ: "field_visit", "group_meeting", "demo")
	Date           int64                `json:"date" bson:"date"`                     // Ngày diễn ra activity (Unix millis)
	OfficerID      string               `json:"officerId" bson:"officerId"`           // Mã field officer thực hiện activity
	OfficerName    string               `json:"officerName,omitempty" bson:"officerName,omitempty"`
	Farmers        []primitive.ObjectID `json:"farmers" bson:"farmers"`               // Danh sách farmer tham dự
	FirstSampleRun bool                 `json:"firstSampleRun" bson:"firstSampleRun"` // Activity đã từng được first-sample run process chưa
	Status         string               `json:"status" bson:"status"`                 // "active", "sampled", "inactive", "not_eligible"
	CreatedAt      int64                `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt      int64                `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
