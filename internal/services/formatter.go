package services

import (
	"fmt"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	newJobsHeader  = "New jobs found:"
	completionMark = "Done."
)

// telegram rejects the whole message when legacy markdown entities are unbalanced
var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

var postedAtLayouts = []string{time.RFC3339, "2006-01-02T15:04:05-0700", "2006-01-02T15:04:05Z0700"}

// FormatListing renders the listing at 1-based position index.
func FormatListing(listing entities.Listing, index int, now time.Time) entities.Message {

	days := "?"
	if postedAt, err := parsePostedAt(listing.PostedAt); err == nil {
		days = strconv.Itoa(DaysAgo(postedAt, now))
	}

	text := fmt.Sprintf("%d) %s - %s \n\n%s \n\n%s Days Ago. [link](%s)\n",
		index, escapeMarkdown(strings.ToUpper(listing.Title)), escapeMarkdown(listing.Location),
		escapeMarkdown(listing.ShortDescription), days, listing.Link)

	return entities.Message{Text: text, Markdown: true}
}

func FormatListings(listings []entities.Listing, now time.Time) []entities.Message {
	messages := make([]entities.Message, 0, len(listings))
	for i, listing := range listings {
		messages = append(messages, FormatListing(listing, i+1, now))
	}
	return messages
}

// DaysAgo counts whole days between postedAt and now, measured in postedAt's own zone.
// Like a floor division, a posting from the future yields a negative number.
func DaysAgo(postedAt time.Time, now time.Time) int {
	elapsed := now.In(postedAt.Location()).Sub(postedAt)
	return int(math.Floor(elapsed.Hours() / 24))
}

func parsePostedAt(value string) (time.Time, error) {
	var err error
	for _, layout := range postedAtLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}
