package samplingdto

// ReactivateSelector xác định tập activity cần reactivate:
// theo danh sách id cụ thể, hoặc theo status + khoảng ngày.
type ReactivateSelector struct {
	ActivityIDs []string `json:"activityIds,omitempty" query:"activityIds" validate:"omitempty,dive,objectid_hex"`
	Status      string   `json:"status,omitempty" query:"status" validate:"omitempty,oneof=sampled inactive not_eligible"`
	DateFrom    int64    `json:"dateFrom,omitempty" query:"dateFrom" validate:"omitempty,gt=0"`
	DateTo      int64    `json:"dateTo,omitempty" query:"dateTo" validate:"omitempty,gt=0"`
}

// ReactivateInput là body của POST /reactivate.
// Confirm phải đúng "YES" — thao tác này đảo trạng thái vòng đời
// và có thể xóa dữ liệu (task chưa gọi, lịch sử audit).
type ReactivateInput struct {
	ReactivateSelector
	Confirm             string `json:"confirm" validate:"required,confirm_yes"`
	DeleteExistingTasks bool   `json:"deleteExistingTasks,omitempty"` // Xóa các task chưa có callLog
	DeleteAuditHistory  bool   `json:"deleteAuditHistory,omitempty"`  // Xóa lịch sử sampling_audits
}

// ReactivatePreviewResult là kết quả dry-run của GET /reactivate-preview
type ReactivatePreviewResult struct {
	MatchedActivities int64 `json:"matchedActivities"`
	TasksWithCalls    int64 `json:"tasksWithCalls"`    // Task đã có kết quả gọi — không bao giờ bị xóa
	TasksWithoutCalls int64 `json:"tasksWithoutCalls"` // Task sẽ bị xóa nếu deleteExistingTasks=true
	AuditRecords      int64 `json:"auditRecords"`
}

// ReactivateResult là kết quả thực thi reactivate
type ReactivateResult struct {
	ReactivatedActivities int64 `json:"reactivatedActivities"`
	DeletedTasks          int64 `json:"deletedTasks"`
	PreservedTasks        int64 `json:"preservedTasks"` // Task có callLog được giữ lại
	DeletedAudits         int64 `json:"deletedAudits"`
}
