package services

import (
	"github.com/maxaizer/jobs-alert/internal/entities"
	"github.com/stretchr/testify/assert"
	"testing"
)

var (
	listingA = entities.NewListing("1", "Backend Engineer", "2024-05-01T09:00:00+03:00", "Go services", "Nairobi (KE)", "https://x/1")
	listingB = entities.NewListing("2", "Data Analyst", "2024-05-02T09:00:00+03:00", "SQL", "Nairobi (KE)", "https://x/2")
	listingC = entities.NewListing("3", "QA Engineer", "2024-05-03T09:00:00+03:00", "Testing", "Kisumu (KE)", "https://x/3")
)

func Test_NewListings_ShouldReturnOnlyUnknownInIncomingOrder(t *testing.T) {

	fresh := NewListings([]entities.Listing{listingB}, []entities.Listing{listingC, listingB, listingA})
	assert.Equal(t, []entities.Listing{listingC, listingA}, fresh)
}

func Test_NewListings_WhenSameSets_ShouldBeEmpty(t *testing.T) {

	store := []entities.Listing{listingA, listingB, listingC}
	assert.Empty(t, NewListings(store, store))
	assert.Empty(t, NewListings(nil, nil))
}

func Test_NewListings_WhenExistingEmpty_ShouldReturnAll(t *testing.T) {

	incoming := []entities.Listing{listingA, listingB}
	assert.Equal(t, incoming, NewListings(nil, incoming))
}

func Test_NewListings_ShouldUseHashNotFields(t *testing.T) {

	churned := listingA
	churned.ShortDescription = "rewritten description"
	churned.Location = "Remote (KE)"

	assert.Empty(t, NewListings([]entities.Listing{listingA}, []entities.Listing{churned}))
}

func Test_NewListings_WhenIncomingHasDuplicates_ShouldReportOnce(t *testing.T) {

	assert.Equal(t, []entities.Listing{listingA}, NewListings(nil, []entities.Listing{listingA, listingA}))
}
