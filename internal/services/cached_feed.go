package services

import (
	"context"
	"errors"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"github.com/maxaizer/jobs-alert/internal/events"
	"github.com/maxaizer/jobs-alert/internal/logger"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"time"
)

const currentListingsKey = "current_listings"

type listingsLoader interface {
	Load(ctx context.Context) ([]entities.Listing, error)
}

// CachedFeed answers on-demand listing requests without hitting the feed on every command.
// When the feed is down it falls back to the listings seen so far.
type CachedFeed struct {
	fetcher  listingsFetcher
	fallback listingsLoader
	cache    *gocache.Cache
	ttl      time.Duration
}

func NewCachedFeed(bus EventBus.Bus, fetcher listingsFetcher, fallback listingsLoader, ttl time.Duration) (*CachedFeed, error) {

	if fetcher == nil {
		return nil, errors.New("fetcher is nil")
	}
	if fallback == nil {
		return nil, errors.New("fallback is nil")
	}

	c := &CachedFeed{
		fetcher:  fetcher,
		fallback: fallback,
		cache:    gocache.New(ttl, 2*ttl),
		ttl:      ttl,
	}

	if bus != nil {
		if err := bus.Subscribe(events.ListingsFoundTopic, c.onListingsFound); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *CachedFeed) Listings(ctx context.Context) ([]entities.Listing, error) {

	if cached, found := c.cache.Get(currentListingsKey); found {
		return cached.([]entities.Listing), nil
	}

	listings, err := c.fetcher.Fetch(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeFeed).
			Warnf("feed unavailable, answering from stored listings: %v", err)
		return c.fallback.Load(ctx)
	}

	if c.ttl > 0 {
		c.cache.Set(currentListingsKey, listings, gocache.DefaultExpiration)
	}
	return listings, nil
}

func (c *CachedFeed) onListingsFound(_ events.ListingsFound) {
	c.cache.Flush()
}
