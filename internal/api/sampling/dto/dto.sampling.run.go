package samplingdto

// RunInput là body của POST /run — khởi chạy một sampling run.
// RunType quyết định đường xử lý: first_sample (phân bổ theo officer,
// khoảng ngày tự động) hoặc adhoc (danh sách id / khoảng ngày tùy chọn, không budget).
type RunInput struct {
	RunType     string   `json:"runType" validate:"required,oneof=first_sample adhoc"`
	ActivityIDs []string `json:"activityIds,omitempty" validate:"omitempty,dive,objectid_hex"` // Chạy trên danh sách id cụ thể (adhoc)
	DateFrom    int64    `json:"dateFrom,omitempty" validate:"omitempty,gt=0"`                 // Unix millis
	DateTo      int64    `json:"dateTo,omitempty" validate:"omitempty,gt=0"`                   // Unix millis
	Percentage  *float64 `json:"percentage,omitempty" validate:"omitempty,gt=0,lte=100"`       // Override phần trăm cấu hình
	Force       bool     `json:"force,omitempty"`                                              // Bỏ qua guard "already running"
}

// AutoRunInput là body của POST /auto-run (scheduler entry point).
// InitiatorID cho phép scheduler chạy thay cho một user cụ thể;
// rỗng thì dùng user từ token.
type AutoRunInput struct {
	InitiatorID string `json:"initiatorId,omitempty"`
}

// AutoRunResult là kết quả trả về của auto-run gate
type AutoRunResult struct {
	Ran     bool        `json:"ran"`
	Reason  string      `json:"reason,omitempty"` // "disabled", "before_activation_date", "below_threshold", "already_running"
	Backlog int64       `json:"backlog,omitempty"`
	Run     interface{} `json:"run,omitempty"` // SamplingRun nếu đã chạy
}

// FirstSampleRangeResult là kết quả của GET /first-sample-range
type FirstSampleRangeResult struct {
	DateFrom     int64  `json:"dateFrom"`
	DateTo       int64  `json:"dateTo"`
	Source       string `json:"source"` // "auto" (tiếp nối run trước), "suggested" (span backlog), "fallback" (30 ngày)
	MatchedCount int64  `json:"matchedCount"`
}
