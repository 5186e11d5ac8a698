package scheduler

import (
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Sweeper drops expired entries and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

// CacheSweepScheduler 캐시 만료 항목 정리 스케줄러
type CacheSweepScheduler struct {
	cron    *cron.Cron
	spec    string
	sweeper Sweeper
}

// NewCacheSweepScheduler 캐시 정리 스케줄러 생성
// spec is a robfig/cron expression such as "@every 10m".
func NewCacheSweepScheduler(sweeper Sweeper, spec string) *CacheSweepScheduler {
	return &CacheSweepScheduler{
		cron:    cron.New(),
		spec:    spec,
		sweeper: sweeper,
	}
}

// Start 스케줄러 시작
func (s *CacheSweepScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for cache sweep", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Cache sweep scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce 만료 항목 정리 1회 실행
func (s *CacheSweepScheduler) RunOnce() {
	removed := s.sweeper.Sweep()
	logger.Debug("Cache sweep completed", map[string]interface{}{
		"removed": removed,
	})
}

// Stop 스케줄러 중지
func (s *CacheSweepScheduler) Stop() {
	logger.Info("Stopping cache sweep scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Cache sweep scheduler stopped")
}
