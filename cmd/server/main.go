package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"agri_connect/internal/global"
	"agri_connect/internal/logger"
	"agri_connect/internal/worker"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Logger tự đọc environment variables để cấu hình level và thư mục log
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	log := logger.GetAppLogger()
	log.Info("Logger system initialized successfully")
}

// main_thread khởi tạo và chạy Fiber server
func main_thread() {
	app := InitFiberApp()

	cfg := global.ServerConfig
	log := logger.GetAppLogger()

	log.WithFields(map[string]interface{}{
		"address":  cfg.Address,
		"protocol": "HTTP",
	}).Info("Starting Fiber server...")

	listenConfig := fiber.ListenConfig{}
	if err := app.Listen(cfg.Address, listenConfig); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	// Khởi tạo và chạy Auto Run Worker (background)
	log := logger.GetAppLogger()
	cfg := global.ServerConfig
	if cfg.AutoRun_WorkerEnabled {
		autoRunWorker := NewAutoRunWorkerFromConfig()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(map[string]interface{}{
						"panic": r,
					}).Error("🤖 [AUTO_RUN] Worker goroutine panic")
				}
			}()
			autoRunWorker.Start(ctx)
			log.Warn("🤖 [AUTO_RUN] Worker đã dừng (có thể do context cancelled)")
		}()

		log.Info("🤖 [AUTO_RUN] Auto Run Worker started successfully")
	} else {
		log.Info("🤖 [AUTO_RUN] Auto Run Worker disabled by config")
	}

	// Chạy Fiber server trên main thread
	main_thread()
}

// NewAutoRunWorkerFromConfig dựng worker auto-run với chuỗi service đầy đủ
func NewAutoRunWorkerFromConfig() *worker.AutoRunWorker {
	interval := time.Duration(global.ServerConfig.AutoRun_WorkerInterval) * time.Second
	return worker.NewAutoRunWorker(buildAutoRunService(), interval)
}
