package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/courseprogress-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/courseprogress-backend/internal/domain/aggregates"
	"github.com/yungbote/courseprogress-backend/internal/modules/learning/progress"
	"github.com/yungbote/courseprogress-backend/internal/observability"
	"github.com/yungbote/courseprogress-backend/internal/platform/logger"
	"github.com/yungbote/courseprogress-backend/internal/realtime"
	"github.com/yungbote/courseprogress-backend/internal/realtime/bus"
	"github.com/yungbote/courseprogress-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Progress   services.ProgressService
	Enrollment services.EnrollmentService
	Completion services.CompletionService
	Dispatcher services.EventDispatcher

	CompletionAggregate domainagg.CompletionAggregate
	Engine              *progress.Engine
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, hub *realtime.SSEHub, sseBus bus.Bus, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	var emitter services.SSEEmitter = &services.HubEmitter{Hub: hub}
	if sseBus != nil {
		emitter = &services.RedisEmitter{Bus: sseBus}
	}
	dispatcher := services.NewEventDispatcher(log, emitter, metrics)

	engine := progress.NewEngine(log, r.Course, r.Progress)

	completionAgg := aggregates.NewCompletionAggregate(aggregates.CompletionAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:       db,
			Log:      log,
			Runner:   aggregates.NewGormTxRunner(db),
			Hooks:    aggregates.NewObservabilityHooks(metrics),
			CASGuard: aggregates.NewCASGuard(db),
		},
		Courses:     r.Course,
		Enrollments: r.Enrollment,
		Progress:    r.Progress,
	})

	return Services{
		Auth:       services.NewAuthService(log, cfg.JWTSecretKey),
		Progress:   services.NewProgressService(log, r.Course, r.Enrollment, r.Progress, engine, cfg.EnrollmentListConcurrency),
		Enrollment: services.NewEnrollmentService(log, r.Course, r.Enrollment),
		Completion: services.NewCompletionService(log, completionAgg, r.Progress, dispatcher),
		Dispatcher: dispatcher,

		CompletionAggregate: completionAgg,
		Engine:              engine,
	}
}
