package services

import "github.com/maxaizer/jobs-alert/internal/entities"

// NewListings returns the incoming listings whose hash is not in existing, in incoming order.
// A hash repeated inside incoming is reported once.
func NewListings(existing, incoming []entities.Listing) []entities.Listing {

	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, listing := range existing {
		seen[listing.Hash] = struct{}{}
	}

	fresh := make([]entities.Listing, 0)
	for _, listing := range incoming {
		if _, ok := seen[listing.Hash]; ok {
			continue
		}
		seen[listing.Hash] = struct{}{}
		fresh = append(fresh, listing)
	}
	return fresh
}
