// Package worker - AutoRunWorker gọi auto-run gate theo chu kỳ.
// Gate tự quyết định có chạy sampling hay không nên worker chỉ cần tick đều.
package worker

import (
	"context"
	"time"

	samplingsvc "agri_connect/internal/api/sampling/service"
	"agri_connect/internal/logger"

	"github.com/sirupsen/logrus"
)

// SchedulerInitiatorID là userId ghi trên các run do scheduler khởi tạo
const SchedulerInitiatorID = "auto-run-scheduler"

// AutoRunWorker đánh giá auto-run gate định kỳ.
//
// Mỗi tick gọi TryAutoRun một lần; gate chặn (disabled, chưa đến ngày kích hoạt,
// backlog dưới ngưỡng, đang có run chạy) thì chỉ log debug và chờ tick sau.
type AutoRunWorker struct {
	autoRunSvc *samplingsvc.AutoRunService
	interval   time.Duration // Khoảng thời gian giữa các lần đánh giá gate (vd: 1h)
}

// NewAutoRunWorker tạo worker mới. Interval dưới 1 phút bị nâng lên mặc định 1h.
func NewAutoRunWorker(autoRunSvc *samplingsvc.AutoRunService, interval time.Duration) *AutoRunWorker {
	if interval < time.Minute {
		interval = time.Hour
	}
	return &AutoRunWorker{
		autoRunSvc: autoRunSvc,
		interval:   interval,
	}
}

// Start chạy worker trong vòng lặp.
func (w *AutoRunWorker) Start(ctx context.Context) {
	log := logger.GetWorkerLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
	}).Info("🤖 [AUTO_RUN] Starting Auto Run Worker...")

	// Chờ 1 phút trước tick đầu, tránh chạy lúc startup
	time.Sleep(time.Minute)

	for {
		select {
		case <-ctx.Done():
			log.Info("🤖 [AUTO_RUN] Auto Run Worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx, log)
		}
	}
}

// tick đánh giá gate một lần, panic được recover để vòng lặp sống tiếp
func (w *AutoRunWorker) tick(ctx context.Context, log *logrus.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic": r,
			}).Error("🤖 [AUTO_RUN] Panic khi đánh giá gate, sẽ tiếp tục tick sau")
		}
	}()

	result, err := w.autoRunSvc.TryAutoRun(ctx, SchedulerInitiatorID)
	if err != nil {
		log.WithError(err).Error("🤖 [AUTO_RUN] Auto-run thất bại")
		return
	}

	if !result.Ran {
		log.WithFields(map[string]interface{}{
			"reason":  result.Reason,
			"backlog": result.Backlog,
		}).Debug("🤖 [AUTO_RUN] Gate chặn, chờ tick sau")
		return
	}

	log.WithFields(map[string]interface{}{
		"backlog": result.Backlog,
	}).Info("🤖 [AUTO_RUN] Đã chạy first-sample run tự động")
}
