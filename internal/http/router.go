package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/courseprogress-backend/internal/http/handlers"
	httpMW "github.com/yungbote/courseprogress-backend/internal/http/middleware"
	"github.com/yungbote/courseprogress-backend/internal/observability"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	ProgressHandler   *httpH.ProgressHandler
	EnrollmentHandler *httpH.EnrollmentHandler
	CompletionHandler *httpH.CompletionHandler
	RealtimeHandler   *httpH.RealtimeHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	protected := r.Group("/api")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
		}

		// Courses and progress
		if cfg.ProgressHandler != nil {
			protected.GET("/courses", cfg.ProgressHandler.ListCourses)
			protected.GET("/courses/:id", cfg.ProgressHandler.GetCourse)
			protected.GET("/courses/:id/progress", cfg.ProgressHandler.GetCourseProgress)
			protected.GET("/steps/:id/status", cfg.ProgressHandler.GetStepStatus)
			protected.GET("/enrollments", cfg.ProgressHandler.GetUserEnrollments)
			protected.GET("/progress/dashboard", cfg.ProgressHandler.GetProgressDashboard)
		}

		if cfg.EnrollmentHandler != nil {
			protected.POST("/courses/:id/enroll", cfg.EnrollmentHandler.Enroll)
		}

		// Completion
		if cfg.CompletionHandler != nil {
			protected.POST("/contents/:id/complete", cfg.CompletionHandler.CompleteContent)
			protected.POST("/contents/:id/video-progress", cfg.CompletionHandler.UpdateVideoProgress)
		}
	}

	return r
}
