package events

import "github.com/maxaizer/jobs-alert/internal/entities"

var ListingsFoundTopic = "ListingsFoundEvent"

type ListingsFound struct {
	Listings []entities.Listing
}
