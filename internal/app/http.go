package app

import (
	apphttp "github.com/yungbote/courseprogress-backend/internal/http"
	httpH "github.com/yungbote/courseprogress-backend/internal/http/handlers"
	httpMW "github.com/yungbote/courseprogress-backend/internal/http/middleware"
	"github.com/yungbote/courseprogress-backend/internal/observability"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
	"github.com/yungbote/courseprogress-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Progress   *httpH.ProgressHandler
	Enrollment *httpH.EnrollmentHandler
	Completion *httpH.CompletionHandler
	Realtime   *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, services Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Progress:   httpH.NewProgressHandler(log, services.Progress),
		Enrollment: httpH.NewEnrollmentHandler(log, services.Enrollment),
		Completion: httpH.NewCompletionHandler(log, services.Completion),
		Realtime:   httpH.NewRealtimeHandler(log, sseHub),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *apphttp.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       serviceName,
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		AuthMiddleware:    middleware.Auth,
		HealthHandler:     handlers.Health,
		ProgressHandler:   handlers.Progress,
		EnrollmentHandler: handlers.Enrollment,
		CompletionHandler: handlers.Completion,
		RealtimeHandler:   handlers.Realtime,
	})
}
