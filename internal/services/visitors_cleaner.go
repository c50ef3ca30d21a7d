package services

import (
	"context"
	"github.com/maxaizer/jobs-alert/internal/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"time"
)

type VisitorCleanupRepository interface {
	RemoveOlderThan(ctx context.Context, expirationTime time.Time) (int64, error)
}

type VisitorsCleaner struct {
	visitors             VisitorCleanupRepository
	cron                 *cron.Cron
	expirationTimeInDays int
	now                  func() time.Time
}

func NewVisitorsCleaner(visitors VisitorCleanupRepository, expirationInDays int) (*VisitorsCleaner, error) {

	if visitors == nil {
		return nil, errors.New("visitors repository is nil")
	}
	if expirationInDays <= 0 {
		return nil, errors.New("expiration in days must be greater than zero")
	}

	vc := &VisitorsCleaner{
		visitors:             visitors,
		cron:                 cron.New(),
		expirationTimeInDays: expirationInDays,
		now:                  time.Now,
	}

	_, err := vc.cron.AddFunc("0 0 * * *", vc.cleanOldVisitors)
	if err != nil {
		return nil, errors.Wrap(err, "can't schedule visitors cleanup")
	}

	vc.cron.Start()
	log.Infof("visitors cleaner started, expiration in days: %d", vc.expirationTimeInDays)
	return vc, nil
}

func (vc *VisitorsCleaner) Stop() {
	vc.cron.Stop()
}

func (vc *VisitorsCleaner) cleanOldVisitors() {
	expirationTime := vc.now().UTC().AddDate(0, 0, -vc.expirationTimeInDays)
	rowsAffected, err := vc.visitors.RemoveOlderThan(context.Background(), expirationTime)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("Failed to clean old visitors: %v", err)
	} else {
		log.Infof("Old visitors were cleaned, affected rows: %v", rowsAffected)
	}
}
