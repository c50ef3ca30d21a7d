package services

import (
	"context"
	"errors"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"github.com/stretchr/testify/mock"
	"sync"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context) ([]entities.Listing, error) {
	args := m.Called(ctx)
	listings, _ := args.Get(0).([]entities.Listing)
	return listings, args.Error(1)
}

// memoryListings mimics the file repository, failPersist simulates a failed write.
type memoryListings struct {
	mu          sync.Mutex
	stored      []entities.Listing
	failPersist bool
	loads       int
	writes      int
}

func (m *memoryListings) Load(_ context.Context) ([]entities.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	return append([]entities.Listing{}, m.stored...), nil
}

func (m *memoryListings) MergeAndPersist(_ context.Context, existing, incoming []entities.Listing) ([]entities.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPersist {
		return nil, errors.New("disk full")
	}
	m.writes++
	merged := append(append([]entities.Listing{}, existing...), NewListings(existing, incoming)...)
	m.stored = merged
	return merged, nil
}

type staticRecipients struct {
	ids []entities.RecipientID
	err error
}

func (s staticRecipients) All(_ context.Context) ([]entities.RecipientID, error) {
	return s.ids, s.err
}

type sentMessage struct {
	recipient entities.RecipientID
	text      string
	markdown  bool
}

// recordingSender records every attempt, sends to recipients in failFor are rejected.
type recordingSender struct {
	mu       sync.Mutex
	failFor  map[entities.RecipientID]bool
	attempts []sentMessage
}

func (s *recordingSender) Send(_ context.Context, recipient entities.RecipientID, text string, markdown bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, sentMessage{recipient: recipient, text: text, markdown: markdown})
	if s.failFor[recipient] {
		return errors.New("Forbidden: bot was blocked by the user")
	}
	return nil
}

func (s *recordingSender) sentTo(recipient entities.RecipientID) []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []sentMessage
	for _, m := range s.attempts {
		if m.recipient == recipient {
			result = append(result, m)
		}
	}
	return result
}
