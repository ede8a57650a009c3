package app

import (
	"fmt"

	"github.com/yungbote/coursejobs/internal/data/repos"
	"github.com/yungbote/coursejobs/internal/jobs/dispatcher"
	"github.com/yungbote/coursejobs/internal/jobs/pipeline/course_copy"
	"github.com/yungbote/coursejobs/internal/jobs/pipeline/course_generate"
	"github.com/yungbote/coursejobs/internal/jobs/pipeline/lecture_generate"
	"github.com/yungbote/coursejobs/internal/jobs/pipeline/sub_lecture_generate"
	"github.com/yungbote/coursejobs/internal/jobs/runtime"
	"github.com/yungbote/coursejobs/internal/jobs/worker"
	"github.com/yungbote/coursejobs/internal/observability"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

func wireRegistry(log *logger.Logger, svc Services, metrics *observability.Metrics) (*runtime.Registry, error) {
	reg := runtime.NewRegistry()
	handlers := []runtime.Handler{course_copy.New(log, svc.CourseCopy, metrics)}
	if svc.Generation != nil {
		handlers = append(handlers,
			course_generate.New(log, svc.Generation),
			lecture_generate.New(log, svc.Generation),
			sub_lecture_generate.New(log, svc.Generation),
		)
	}
	for _, h := range handlers {
		if err := reg.Register(h); err != nil {
			return nil, fmt.Errorf("register %s: %w", h.Type(), err)
		}
	}
	return reg, nil
}

func wireDispatcher(log *logger.Logger, cfg *Config, reposet repos.Repos, svc Services, metrics *observability.Metrics) (*dispatcher.Dispatcher, error) {
	log.Info("Wiring job dispatcher...")
	reg, err := wireRegistry(log, svc, metrics)
	if err != nil {
		return nil, err
	}
	runner := worker.NewRunner(log, reposet.Jobs, reposet.Payloads, reg, metrics)
	return dispatcher.New(log, reposet.Jobs, reposet.Queues, runner, cfg.Dispatcher), nil
}
