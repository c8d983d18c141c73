package cron

import (
	"CAConnect/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine          *cron.Cron
	reactionSyncJob *job.ReactionSyncJob
	leadSyncJob     *job.LeadSyncJob
	caMetricJob     *job.CAMetricJob
}

func NewCronManager(reactionSyncJob *job.ReactionSyncJob, leadSyncJob *job.LeadSyncJob, caMetricJob *job.CAMetricJob) *Manager {
	return &Manager{
		engine:          cron.New(cron.WithSeconds()),
		reactionSyncJob: reactionSyncJob,
		leadSyncJob:     leadSyncJob,
		caMetricJob:     caMetricJob,
	}
}

func (s *Manager) RegisterJobs() error {
	// Counter reconciliation runs often, the metric snapshot once a night.
	if _, err := s.engine.AddJob("0 */10 * * * *", s.reactionSyncJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("30 */10 * * * *", s.leadSyncJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.caMetricJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron engine started")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron engine stopped")
	s.engine.Stop()
}
