package services

import (
	"context"
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"github.com/maxaizer/jobs-alert/internal/events"
	"github.com/maxaizer/jobs-alert/internal/logger"
	"github.com/maxaizer/jobs-alert/internal/metrics"
	log "github.com/sirupsen/logrus"
	"time"
)

var (
	ErrFetch       = errors.New("fetch failed")
	ErrPersistence = errors.New("persistence failed")
	ErrRecipients  = errors.New("recipients unavailable")
)

type listingsFetcher interface {
	Fetch(ctx context.Context) ([]entities.Listing, error)
}

type listingsRepository interface {
	Load(ctx context.Context) ([]entities.Listing, error)
	MergeAndPersist(ctx context.Context, existing, incoming []entities.Listing) ([]entities.Listing, error)
}

type recipientsRepository interface {
	All(ctx context.Context) ([]entities.RecipientID, error)
}

type fanout interface {
	NotifyAll(ctx context.Context, recipients []entities.RecipientID, messages []entities.Message) FanoutReport
}

type CycleResult struct {
	Fetched     int
	NewListings []entities.Listing
	Report      FanoutReport
}

// JobAlerts runs one fetch, diff, persist, notify cycle. Listings are always persisted
// before anyone is notified, so a crash in between can only cause a repeated alert.
type JobAlerts struct {
	bus        EventBus.Bus
	fetcher    listingsFetcher
	listings   listingsRepository
	recipients recipientsRepository
	notifier   fanout
	now        func() time.Time
}

func NewJobAlerts(bus EventBus.Bus, fetcher listingsFetcher, listings listingsRepository,
	recipients recipientsRepository, notifier fanout) (*JobAlerts, error) {

	if bus == nil {
		return nil, errors.New("bus is nil")
	}
	if fetcher == nil {
		return nil, errors.New("fetcher is nil")
	}
	if listings == nil {
		return nil, errors.New("listings repository is nil")
	}
	if recipients == nil {
		return nil, errors.New("recipients repository is nil")
	}
	if notifier == nil {
		return nil, errors.New("notifier is nil")
	}

	return &JobAlerts{
		bus:        bus,
		fetcher:    fetcher,
		listings:   listings,
		recipients: recipients,
		notifier:   notifier,
		now:        time.Now,
	}, nil
}

func (j *JobAlerts) RunCycle(ctx context.Context) (CycleResult, error) {

	var result CycleResult

	fetched, err := j.fetcher.Fetch(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	result.Fetched = len(fetched)

	existing, err := j.listings.Load(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: can't load listings: %w", ErrPersistence, err)
	}

	fresh := NewListings(existing, fetched)
	if len(fresh) == 0 {
		log.Infof("no new jobs found among %d fetched", len(fetched))
		return result, nil
	}

	if _, err = j.listings.MergeAndPersist(ctx, existing, fetched); err != nil {
		return result, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	result.NewListings = fresh
	metrics.NewListingsCounter.Add(float64(len(fresh)))
	log.Infof("found %d new jobs among %d fetched", len(fresh), len(fetched))

	recipients, err := j.recipients.All(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: %w", ErrRecipients, err)
	}

	result.Report = j.notifier.NotifyAll(ctx, recipients, FormatListings(fresh, j.now()))
	for _, failed := range result.Report.Failed() {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
			Warnf("couldn't notify recipient %d: %v", failed.Recipient, failed.Err)
	}
	log.Infof("new jobs delivered to %d of %d recipients",
		len(result.Report.Succeeded()), len(result.Report.Results))

	j.bus.Publish(events.ListingsFoundTopic, events.ListingsFound{Listings: fresh})
	return result, nil
}
