package samplingdto

// ConfigUpdateInput là body của PUT /config.
// Các field nil được giữ nguyên giá trị hiện tại (partial update).
type ConfigUpdateInput struct {
	DefaultPercentage     *float64           `json:"defaultPercentage,omitempty" validate:"omitempty,gt=0,lte=100"`
	TypePercentages       map[string]float64 `json:"typePercentages,omitempty" validate:"omitempty,dive,gt=0,lte=100"`
	EligibleTypes         []string           `json:"eligibleTypes,omitempty" validate:"omitempty,dive,min=1"`
	CoolingDays           *int               `json:"coolingDays,omitempty" validate:"omitempty,gte=0"`
	AutoRunEnabled        *bool              `json:"autoRunEnabled,omitempty"`
	AutoRunThreshold      *int64             `json:"autoRunThreshold,omitempty" validate:"omitempty,gte=0"`
	AutoRunActivationDate *int64             `json:"autoRunActivationDate,omitempty" validate:"omitempty,gte=0"`
}

// ApplyEligibilityInput là body của POST /apply-eligibility.
// EligibleTypes là danh sách đầy đủ các loại được phép sau khi áp dụng;
// loại không có trong danh sách bị coi là disabled. Danh sách rỗng = tắt tất cả.
type ApplyEligibilityInput struct {
	EligibleTypes []string `json:"eligibleTypes" validate:"omitempty,dive,min=1"`
}

// ApplyEligibilityResult là kết quả các transition đã áp dụng
type ApplyEligibilityResult struct {
	Disabled int64 `json:"disabled"` // Số activity chuyển sang not_eligible
	Enabled  int64 `json:"enabled"`  // Số activity not_eligible chuyển lại active
}
