package app

import (
	"github.com/yungbote/coursejobs/internal/data/repos"
	"github.com/yungbote/coursejobs/internal/modules/coursecopy"
	"github.com/yungbote/coursejobs/internal/modules/generation"
	"github.com/yungbote/coursejobs/internal/modules/media"
	"github.com/yungbote/coursejobs/internal/platform/logger"
	"github.com/yungbote/coursejobs/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Submission services.SubmissionService
	// Generation is nil when no AI client is configured.
	Generation generation.Service
	Media      *media.Duplicator
	CourseCopy *coursecopy.Orchestrator
}

func wireServices(log *logger.Logger, cfg *Config, clients Clients, reposet repos.Repos) Services {
	log.Info("Wiring services...")
	dup := media.NewDuplicator(log, clients.Blobs, reposet.Course)
	s := Services{
		Auth:       services.NewAuthService(log, cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL),
		Submission: services.NewSubmissionService(log, reposet.Jobs, reposet.Queues, reposet.Payloads),
		Media:      dup,
		CourseCopy: coursecopy.NewOrchestrator(log, reposet.Course, dup),
	}
	if clients.AI != nil {
		s.Generation = generation.NewService(log, clients.AI, reposet.Course)
	}
	return s
}
