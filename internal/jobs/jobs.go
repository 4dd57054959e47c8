// Package jobs runs the service's periodic background work.
package jobs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/moviehub/catalog-service/internal/domain"
	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron     *cron.Cron
	logger   *slog.Logger
	likeRepo domain.MovieLikeRepository
	tempDir  string
}

func NewScheduler(logger *slog.Logger, likeRepo domain.MovieLikeRepository, tempDir string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		logger:   logger,
		likeRepo: likeRepo,
		tempDir:  tempDir,
	}
}

// Start registers the jobs and starts the scheduler. countSchedule is
// a cron spec (e.g. "@every 1m") controlling how often the
// like/dislike counts are rematerialized; displayed counts may lag the
// per-user rows by up to that interval.
func (s *Scheduler) Start(countSchedule string) error {
	_, err := s.cron.AddFunc(countSchedule, s.recomputeLikeCounts)
	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc("@hourly", s.eraseOrphanedUploads)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("background jobs started", "countSchedule", countSchedule)

	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) recomputeLikeCounts() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.likeRepo.RecomputeCounts(ctx); err != nil {
		s.logger.Error("failed to recompute like counts", "error", err)
	}
}

// eraseOrphanedUploads deletes temp uploads older than a day. Upload
// names follow the "<name>_<unix millis>" convention; anything that
// doesn't parse is treated as stale.
func (s *Scheduler) eraseOrphanedUploads() {
	entries, err := os.ReadDir(s.tempDir)
	if err != nil {
		s.logger.Error("failed to read temp upload dir", "dir", s.tempDir, "error", err)
		return
	}

	deleted := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !uploadExpired(entry.Name(), time.Now()) {
			continue
		}

		if err := os.Remove(filepath.Join(s.tempDir, entry.Name())); err != nil {
			s.logger.Error("failed to remove orphaned upload", "file", entry.Name(), "error", err)
			continue
		}

		deleted++
	}

	if deleted > 0 {
		s.logger.Info("removed orphaned uploads", "count", deleted)
	}
}

func uploadExpired(filename string, now time.Time) bool {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))

	i := strings.LastIndex(name, "_")
	if i < 0 {
		return true
	}

	millis, err := strconv.ParseInt(name[i+1:], 10, 64)
	if err != nil {
		return true
	}

	return now.Sub(time.UnixMilli(millis)) > 24*time.Hour
}
