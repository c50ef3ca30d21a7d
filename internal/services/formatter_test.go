package services

import (
	"github.com/maxaizer/jobs-alert/internal/entities"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func Test_FormatListing_ShouldRenderAllFields(t *testing.T) {

	now := time.Date(2024, 5, 4, 12, 0, 0, 0, time.UTC)

	message := FormatListing(listingA, 1, now)

	assert.True(t, message.Markdown)
	assert.Equal(t, "1) BACKEND ENGINEER - Nairobi (KE) \n\nGo services \n\n3 Days Ago. [link](https://x/1)\n", message.Text)
}

func Test_FormatListing_ShouldEscapeMarkdown(t *testing.T) {

	listing := entities.NewListing("9", "c_sharp *lead*", "2024-05-01T09:00:00Z", "use [brackets]", "Nairobi (KE)", "https://x/9")

	message := FormatListing(listing, 2, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, "2) C\\_SHARP \\*LEAD\\* - Nairobi (KE) \n\nuse \\[brackets] \n\n0 Days Ago. [link](https://x/9)\n", message.Text)
}

func Test_FormatListing_WhenTimestampInvalid_ShouldStillRender(t *testing.T) {

	listing := entities.NewListing("9", "Engineer", "yesterday", "desc", "Nairobi (KE)", "https://x/9")

	message := FormatListing(listing, 1, time.Now())
	assert.Contains(t, message.Text, "? Days Ago.")
}

func Test_FormatListings_ShouldNumberFromOne(t *testing.T) {

	messages := FormatListings([]entities.Listing{listingA, listingB}, time.Now())

	assert.Len(t, messages, 2)
	assert.Regexp(t, `^1\) BACKEND ENGINEER`, messages[0].Text)
	assert.Regexp(t, `^2\) DATA ANALYST`, messages[1].Text)
}

func Test_DaysAgo_ShouldUsePostingZone(t *testing.T) {

	nairobi := time.FixedZone("EAT", 3*60*60)
	postedAt := time.Date(2024, 5, 1, 23, 30, 0, 0, nairobi)

	// 2024-05-02 23:29 in Nairobi, still less than a full day
	now := time.Date(2024, 5, 2, 20, 29, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysAgo(postedAt, now))

	now = time.Date(2024, 5, 2, 20, 30, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysAgo(postedAt, now))

	now = time.Date(2024, 5, 11, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, DaysAgo(postedAt, now))
}

func Test_DaysAgo_WhenPostedInFuture_ShouldBeNegative(t *testing.T) {

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, -1, DaysAgo(now.Add(time.Hour), now))
}

func Test_ParsePostedAt_ShouldAcceptOffsetWithoutColon(t *testing.T) {

	parsed, err := parsePostedAt("2024-05-01T09:00:00+0300")
	assert.NoError(t, err)
	_, offset := parsed.Zone()
	assert.Equal(t, 3*60*60, offset)
}
