package services

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"github.com/maxaizer/jobs-alert/internal/events"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type mockVisitors struct {
	mock.Mock
}

func (m *mockVisitors) Record(ctx context.Context, visitor entities.Visitor) error {
	return m.Called(ctx, visitor).Error(0)
}

func (m *mockVisitors) RemoveOlderThan(ctx context.Context, expirationTime time.Time) (int64, error) {
	args := m.Called(ctx, expirationTime)
	return args.Get(0).(int64), args.Error(1)
}

func Test_VisitorLogger_WhenUserInteracted_ShouldRecordVisitor(t *testing.T) {

	bus := EventBus.New()
	visitors := &mockVisitors{}
	at := time.Date(2024, 5, 4, 15, 4, 0, 0, time.FixedZone("EAT", 3*3600))
	visitors.On("Record", mock.Anything, entities.Visitor{UserID: 42, UserName: "ann", LastSeenAt: at.UTC()}).Return(nil).Once()

	_, err := NewVisitorLogger(bus, visitors)
	require.NoError(t, err)

	bus.Publish(events.UserInteractedTopic, events.UserInteracted{UserID: 42, UserName: "ann", Command: "jobs", At: at})
	bus.WaitAsync()

	visitors.AssertExpectations(t)
}

func Test_VisitorLogger_WhenRecordFails_ShouldKeepListening(t *testing.T) {

	bus := EventBus.New()
	visitors := &mockVisitors{}
	visitors.On("Record", mock.Anything, mock.Anything).Return(errors.New("locked")).Twice()

	_, err := NewVisitorLogger(bus, visitors)
	require.NoError(t, err)

	bus.Publish(events.UserInteractedTopic, events.UserInteracted{UserID: 1, At: time.Now()})
	bus.Publish(events.UserInteractedTopic, events.UserInteracted{UserID: 2, At: time.Now()})
	bus.WaitAsync()

	visitors.AssertNumberOfCalls(t, "Record", 2)
}

func Test_NewVisitorLogger_WhenDependencyMissing_ShouldFail(t *testing.T) {

	_, err := NewVisitorLogger(nil, &mockVisitors{})
	assert.Error(t, err)

	_, err = NewVisitorLogger(EventBus.New(), nil)
	assert.Error(t, err)
}
