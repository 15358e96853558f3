package global

import (
	"agri_connect/config"
	"agri_connect/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionNames chứa tên các collection trong MongoDB
type CollectionNames struct {
	Activities      string // Collection cho hoạt động hiện trường (field activities)
	CallTasks       string // Collection cho call task (mỗi farmer được chọn một task)
	SamplingRuns    string // Collection cho các lần chạy sampling
	SamplingConfigs string // Collection cho cấu hình sampling (singleton key "default")
	SamplingAudits  string // Collection cho lịch sử sampling theo từng activity
}

// Các biến toàn cục
var Validate *validator.Validate             // Validator dùng chung để xác thực dữ liệu
var MongoDB_Session *mongo.Client            // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration       // Cấu hình của server
var ColNames = CollectionNames{              // Tên các collection
	Activities:      "activities",
	CallTasks:       "call_tasks",
	SamplingRuns:    "sampling_runs",
	SamplingConfigs: "sampling_configs",
	SamplingAudits:  "sampling_audits",
}

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
