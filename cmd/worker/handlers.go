package main

import (
	"github.com/hibiken/asynq"

	startupJob "launchsignal-backend/internal/domains/startup/job"
	"launchsignal-backend/internal/infrastructure/email"
	emailjob "launchsignal-backend/internal/infrastructure/email/job"
	"launchsignal-backend/internal/shared"
	"launchsignal-backend/pkg/container"
)

// HandlerRegistry holds every task handler the worker serves.
type HandlerRegistry struct {
	contactEmail *emailjob.ContactEmailHandler

	pruneViewBuckets *startupJob.PruneViewBucketsHandler
	warmTrending     *startupJob.WarmTrendingHandler
}

func initializeHandlers(c *container.Container, cfg *Config) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(cfg.SMTP)

	return &HandlerRegistry{
		contactEmail: emailjob.NewContactEmailHandler(emailSvc),

		pruneViewBuckets: startupJob.NewPruneViewBucketsHandler(c.StartupService),
		warmTrending:     startupJob.NewWarmTrendingHandler(c.StartupService),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Email
	mux.HandleFunc(shared.TypeSendContactEmail, h.contactEmail.ProcessTask)

	// Maintenance
	mux.HandleFunc(shared.TypePruneViewBuckets, h.pruneViewBuckets.ProcessTask)
	mux.HandleFunc(shared.TypeWarmTrendingCache, h.warmTrending.ProcessTask)
}
