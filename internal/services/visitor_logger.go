package services

import (
	"context"
	"errors"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"github.com/maxaizer/jobs-alert/internal/events"
	"github.com/maxaizer/jobs-alert/internal/logger"
	log "github.com/sirupsen/logrus"
)

type visitorRepository interface {
	Record(ctx context.Context, visitor entities.Visitor) error
}

// VisitorLogger records who talked to the bot, off the command handling path.
type VisitorLogger struct {
	visitors visitorRepository
}

func NewVisitorLogger(bus EventBus.Bus, visitors visitorRepository) (*VisitorLogger, error) {

	if bus == nil {
		return nil, errors.New("bus is nil")
	}
	if visitors == nil {
		return nil, errors.New("visitors repository is nil")
	}

	v := &VisitorLogger{visitors: visitors}
	if err := bus.SubscribeAsync(events.UserInteractedTopic, v.onUserInteracted, true); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *VisitorLogger) onUserInteracted(event events.UserInteracted) {
	log.Infof("interaction with bot from user: %s (%d), command: %s", event.UserName, event.UserID, event.Command)

	err := v.visitors.Record(context.Background(), entities.Visitor{
		UserID:     event.UserID,
		UserName:   event.UserName,
		LastSeenAt: event.At.UTC(),
	})
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("couldn't record visitor %d: %v", event.UserID, err)
	}
}
