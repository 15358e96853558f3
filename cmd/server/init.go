package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"agri_connect/config"
	samplingsvc "agri_connect/internal/api/sampling/service"
	"agri_connect/internal/database"
	"agri_connect/internal/global"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo validator (global.InitValidator đăng ký custom validators: objectid_hex, confirm_yes)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err) // Ghi log lỗi nếu kết nối database thất bại
	}
	logrus.Info("Connected to MongoDB") // Ghi log thông báo đã kết nối database thành công

	// Khởi tạo các index cho các collection của domain sampling
	db := global.MongoDB_Session.Database(global.ServerConfig.MongoDB_DBName)
	if err := database.CreateSamplingIndexes(context.TODO(), db); err != nil {
		logrus.Fatalf("Failed to create sampling indexes: %v", err)
	}
	logrus.Info("Ensured sampling indexes")
}

// buildAutoRunService dựng chuỗi service cho auto-run worker.
// Gọi sau InitRegistry vì các service lấy collection từ registry.
func buildAutoRunService() *samplingsvc.AutoRunService {
	configSvc := samplingsvc.NewSamplingConfigService()
	rangeSvc := samplingsvc.NewRangeResolverService(configSvc)
	runSvc := samplingsvc.NewSamplingRunService()
	samplerSvc := samplingsvc.NewActivitySamplerService(configSvc)
	coordinator := samplingsvc.NewRunCoordinatorService(configSvc, rangeSvc, runSvc, samplerSvc)
	return samplingsvc.NewAutoRunService(configSvc, rangeSvc, runSvc, coordinator)
}
