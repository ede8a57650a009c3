package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/yungbote/coursejobs/internal/http"
	httpH "github.com/yungbote/coursejobs/internal/http/handlers"
	httpMW "github.com/yungbote/coursejobs/internal/http/middleware"
	"github.com/yungbote/coursejobs/internal/observability"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Generation *httpH.GenerationHandler
	CourseCopy *httpH.CourseCopyHandler
	Job        *httpH.JobHandler
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireHandlers(log *logger.Logger, services Services, rdb redis.UniversalClient) Handlers {
	log.Info("Wiring handlers...")
	ping := httpH.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	return Handlers{
		Health:     httpH.NewHealthHandler(ping),
		Generation: httpH.NewGenerationHandler(services.Submission),
		CourseCopy: httpH.NewCourseCopyHandler(services.Submission),
		Job:        httpH.NewJobHandler(services.Submission),
	}
}

func wireRouter(log *logger.Logger, cfg *Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		CORSOrigins:       cfg.Server.CORSOrigins,
		Metrics:           metrics,
		AuthMiddleware:    middleware.Auth,
		GenerationHandler: handlers.Generation,
		CourseCopyHandler: handlers.CourseCopy,
		JobHandler:        handlers.Job,
		HealthHandler:     handlers.Health,
	})
}
