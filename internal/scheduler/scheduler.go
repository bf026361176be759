package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ambegrouplimited/reminderd/config"
	"github.com/ambegrouplimited/reminderd/internal/storage"
)

// Scheduler runs the background maintenance jobs: the daily stale-draft purge
// and an hourly draft-count gauge.
type Scheduler struct {
	cron    *cron.Cron
	cfg     *config.Config
	storage *storage.Storage
	log     zerolog.Logger
}

func New(cfg *config.Config, storage *storage.Storage, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(cfg.Timezone))

	return &Scheduler{
		cron:    c,
		cfg:     cfg,
		storage: storage,
		log:     log,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	// Daily purge at the configured time
	hh, mm, ok := strings.Cut(s.cfg.PurgeTime, ":")
	if !ok {
		return fmt.Errorf("invalid purge time: %s", s.cfg.PurgeTime)
	}
	purgeSpec := fmt.Sprintf("%s %s * * *", mm, hh)
	if _, err := s.cron.AddFunc(purgeSpec, s.purgeStaleDrafts); err != nil {
		return fmt.Errorf("add draft purge: %w", err)
	}

	// Hourly draft-count gauge
	if _, err := s.cron.AddFunc("0 * * * *", s.reportDraftCount); err != nil {
		return fmt.Errorf("add draft count report: %w", err)
	}

	s.cron.Start()
	s.log.Info().
		Str("timezone", s.cfg.Timezone.String()).
		Str("purge_time", s.cfg.PurgeTime).
		Int("retention_days", s.cfg.DraftRetentionDays).
		Msg("scheduler started")

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) purgeStaleDrafts() {
	cutoff := time.Now().In(s.cfg.Timezone).AddDate(0, 0, -s.cfg.DraftRetentionDays)
	n, err := s.storage.PurgeStaleDrafts(cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("purge stale drafts")
		return
	}
	if n > 0 {
		s.log.Info().Int64("purged", n).Time("cutoff", cutoff).Msg("stale drafts purged")
	}
}

func (s *Scheduler) reportDraftCount() {
	n, err := s.storage.CountDrafts()
	if err != nil {
		s.log.Error().Err(err).Msg("count drafts")
		return
	}
	s.log.Debug().Int64("drafts", n).Msg("draft count")
}
