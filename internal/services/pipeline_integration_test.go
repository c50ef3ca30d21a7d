package services_test

import (
	"context"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobs-alert/internal/clients/feed"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"github.com/maxaizer/jobs-alert/internal/repositories"
	"github.com/maxaizer/jobs-alert/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const twoRequisitions = `{"items":[{"requisitionList":[
	{"Id":"101","Title":"Backend Engineer","PostedDate":"2024-05-01T09:00:00+03:00",
	 "ShortDescriptionStr":"Go services","PrimaryLocation":"NAIROBI","PrimaryLocationCountry":"KE"},
	{"Id":"102","Title":"Data Analyst","PostedDate":"2024-05-02T09:00:00+03:00",
	 "ShortDescriptionStr":"SQL","PrimaryLocation":"NAIROBI","PrimaryLocationCountry":"KE"}
]}]}`

type chatLog struct {
	mu    sync.Mutex
	texts map[entities.RecipientID][]string
}

func (c *chatLog) Send(_ context.Context, recipient entities.RecipientID, text string, _ bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts[recipient] = append(c.texts[recipient], text)
	return nil
}

type pipeline struct {
	alerts   *services.JobAlerts
	listings *repositories.Listings
	chats    *chatLog
	status   *atomic.Int32
}

func newPipeline(t *testing.T) *pipeline {

	status := &atomic.Int32{}
	status.Store(http.StatusOK)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if code := int(status.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		_, _ = w.Write([]byte(twoRequisitions))
	}))
	t.Cleanup(server.Close)

	dbCtx, err := repositories.NewDbContext(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())
	t.Cleanup(func() { _ = dbCtx.Close() })
	require.NoError(t, dbCtx.SeedSubscribers([]int64{10}))

	listings, err := repositories.NewListingsRepository(filepath.Join(t.TempDir(), "job_ids.json"))
	require.NoError(t, err)

	chats := &chatLog{texts: map[entities.RecipientID][]string{}}
	alerts, err := services.NewJobAlerts(EventBus.New(), feed.NewClient(server.URL, "https://jobs.test/job", time.Second),
		listings, repositories.NewRecipientsRepository(dbCtx.DB, []int64{20}), services.NewNotifier(chats))
	require.NoError(t, err)

	return &pipeline{alerts: alerts, listings: listings, chats: chats, status: status}
}

func Test_Pipeline_WhenRunTwice_ShouldAlertOnceAndPersist(t *testing.T) {

	assert := assert.New(t)
	p := newPipeline(t)

	result, err := p.alerts.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Len(result.NewListings, 2)
	assert.Equal([]entities.RecipientID{10, 20}, result.Report.Succeeded())

	for _, recipient := range []entities.RecipientID{10, 20} {
		texts := p.chats.texts[recipient]
		require.Len(t, texts, 4)
		assert.Equal("New jobs found:", texts[0])
		assert.Contains(texts[1], "BACKEND ENGINEER - Nairobi (KE)")
		assert.Contains(texts[1], "[link](https://jobs.test/job/101)")
		assert.Equal("Done.", texts[3])
	}

	stored, err := p.listings.Load(context.Background())
	require.NoError(t, err)
	assert.Len(stored, 2)

	result, err = p.alerts.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Empty(result.NewListings)
	assert.Len(p.chats.texts[10], 4)
}

func Test_Pipeline_WhenFeedReturnsError_ShouldLeaveStoreEmpty(t *testing.T) {

	p := newPipeline(t)
	p.status.Store(http.StatusServiceUnavailable)

	_, err := p.alerts.RunCycle(context.Background())
	assert.ErrorIs(t, err, services.ErrFetch)
	assert.ErrorIs(t, err, feed.ErrUnavailable)

	stored, err := p.listings.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, p.chats.texts)
}
