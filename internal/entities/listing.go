package entities

import (
	"fmt"
	"github.com/cespare/xxhash/v2"
)

// Listing is one job posting as seen in the feed at fetch time.
type Listing struct {
	Hash             string `json:"job_hash"`
	ID               string `json:"job_id"`
	Title            string `json:"job_title"`
	PostedAt         string `json:"job_post_date"`
	ShortDescription string `json:"job_short_description"`
	Location         string `json:"job_location"`
	Link             string `json:"job_link"`
}

func NewListing(id, title, postedAt, shortDescription, location, link string) Listing {
	return Listing{
		Hash:             ListingHash(id, title, postedAt),
		ID:               id,
		Title:            title,
		PostedAt:         postedAt,
		ShortDescription: shortDescription,
		Location:         location,
		Link:             link,
	}
}

// ListingHash fingerprints a posting by its upstream id, title and posting time only,
// so edits to descriptions or locations never surface as a new listing.
func ListingHash(id, title, postedAt string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(id+" "+title+" "+postedAt))
}
