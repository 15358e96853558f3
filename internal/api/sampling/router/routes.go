// Package samplingrouter đăng ký các route của domain call-sampling.
package samplingrouter

import (
	"github.com/gofiber/fiber/v3"

	"agri_connect/internal/api/middleware"
	"agri_connect/internal/api/router"
	samplinghdl "agri_connect/internal/api/sampling/handler"
	samplingsvc "agri_connect/internal/api/sampling/service"
)

// Prefix quyền của domain: "CallSampling.Read" cho đọc, "CallSampling.Manage" cho thao tác ghi
const permissionPrefix = "CallSampling"

// Register khởi tạo service, handler và đăng ký toàn bộ route của domain
// dưới /api/v1/call-sampling. Gọi sau khi registry collection đã sẵn sàng.
func Register(v1 fiber.Router, r *router.Router) error {
	configSvc := samplingsvc.NewSamplingConfigService()
	rangeSvc := samplingsvc.NewRangeResolverService(configSvc)
	runSvc := samplingsvc.NewSamplingRunService()
	samplerSvc := samplingsvc.NewActivitySamplerService(configSvc)
	activitySvc := samplingsvc.NewActivityService(configSvc)
	auditSvc := samplingsvc.NewSamplingAuditService()
	coordinator := samplingsvc.NewRunCoordinatorService(configSvc, rangeSvc, runSvc, samplerSvc)
	autoRunSvc := samplingsvc.NewAutoRunService(configSvc, rangeSvc, runSvc, coordinator)

	configHandler := samplinghdl.NewSamplingConfigHandler(configSvc, activitySvc)
	runHandler := samplinghdl.NewSamplingRunHandler(coordinator, autoRunSvc, rangeSvc, runSvc)
	activityHandler := samplinghdl.NewSamplingActivityHandler(activitySvc)
	auditHandler := samplinghdl.NewSamplingAuditHandler(auditSvc, activitySvc)

	read := []fiber.Handler{middleware.AuthMiddleware(permissionPrefix + ".Read")}
	manage := []fiber.Handler{middleware.AuthMiddleware(permissionPrefix + ".Manage")}

	prefix := "/call-sampling"

	// Cấu hình
	router.RegisterRouteWithMiddleware(v1, prefix, "GET", "/config", read, configHandler.GetConfig)
	router.RegisterRouteWithMiddleware(v1, prefix, "PUT", "/config", manage, configHandler.UpdateConfig)
	router.RegisterRouteWithMiddleware(v1, prefix, "POST", "/apply-eligibility", manage, configHandler.ApplyEligibility)

	// Run
	router.RegisterRouteWithMiddleware(v1, prefix, "POST", "/run", manage, runHandler.Run)
	router.RegisterRouteWithMiddleware(v1, prefix, "POST", "/auto-run", manage, runHandler.AutoRun)
	router.RegisterRouteWithMiddleware(v1, prefix, "GET", "/first-sample-range", read, runHandler.FirstSampleRange)
	router.RegisterRouteWithMiddleware(v1, prefix, "GET", "/run-status/latest", read, runHandler.LatestRun)

	// Activity
	router.RegisterRouteWithMiddleware(v1, prefix, "GET", "/activities", read, activityHandler.ListActivities)
	router.RegisterRouteWithMiddleware(v1, prefix, "GET", "/stats", read, activityHandler.Stats)
	router.RegisterRouteWithMiddleware(v1, prefix, "GET", "/reactivate-preview", read, activityHandler.ReactivatePreview)
	router.RegisterRouteWithMiddleware(v1, prefix, "POST", "/reactivate", manage, activityHandler.Reactivate)

	// Audit
	router.RegisterRouteWithMiddleware(v1, prefix, "GET", "/audit", read, auditHandler.ListAudits)

	// Route đọc CRUD chung cho run và audit (tra cứu, đối soát)
	r.RegisterCRUDRoutes(v1, prefix+"/runs", runHandler, router.ReadOnlyConfig, permissionPrefix)
	r.RegisterCRUDRoutes(v1, prefix+"/audits", auditHandler, router.ReadOnlyConfig, permissionPrefix)

	return nil
}
