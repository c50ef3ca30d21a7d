package services

import (
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func Test_CleanOldVisitors_ShouldRemoveOlderThanExpiration(t *testing.T) {

	visitors := &mockVisitors{}
	now := time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)
	visitors.On("RemoveOlderThan", mock.Anything, now.AddDate(0, 0, -30)).Return(int64(3), nil).Once()

	cleaner, err := NewVisitorsCleaner(visitors, 30)
	require.NoError(t, err)
	defer cleaner.Stop()
	cleaner.now = func() time.Time { return now }

	cleaner.cleanOldVisitors()

	visitors.AssertExpectations(t)
}

func Test_CleanOldVisitors_WhenRepositoryFails_ShouldNotPanic(t *testing.T) {

	visitors := &mockVisitors{}
	visitors.On("RemoveOlderThan", mock.Anything, mock.Anything).Return(int64(0), errors.New("locked"))

	cleaner, err := NewVisitorsCleaner(visitors, 1)
	require.NoError(t, err)
	defer cleaner.Stop()

	assert.NotPanics(t, cleaner.cleanOldVisitors)
}

func Test_NewVisitorsCleaner_WhenInvalidArgs_ShouldFail(t *testing.T) {

	_, err := NewVisitorsCleaner(&mockVisitors{}, 0)
	assert.Error(t, err)

	_, err = NewVisitorsCleaner(nil, 10)
	assert.Error(t, err)
}
