package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/maxaizer/jobs-alert/internal/entities"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultURL = "https://egjd.fa.us6.oraclecloud.com/hcmRestApi/resources/latest/recruitingCEJobRequisitions" +
		"?onlyData=true&expand=requisitionList.secondaryLocations,flexFieldsFacet.values" +
		"&finder=findReqs;siteNumber=CX,facetsList=LOCATIONS%3BWORK_LOCATIONS%3BWORKPLACE_TYPES%3BTITLES" +
		"%3BCATEGORIES%3BORGANIZATIONS%3BPOSTING_DATES%3BFLEX_FIELDS,limit=50,sortBy=POSTING_DATES_DESC"
	DefaultLinkBase = "https://egjd.fa.us6.oraclecloud.com/hcmUI/CandidateExperience/en/sites/CX/job"
)

var (
	ErrUnavailable       = errors.New("feed unavailable")
	ErrMalformedResponse = errors.New("malformed feed response")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
	url         string
	linkBase    string
}

func NewClient(url, linkBase string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if linkBase == "" {
		linkBase = DefaultLinkBase
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		linkBase:   strings.TrimSuffix(linkBase, "/"),
	}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	if maxRequestsPerSecond <= 0 {
		c.rateLimiter = nil
		return
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

// Fetch issues a single request and returns the current listings in feed order.
// Nothing is returned alongside an error: a partial fetch must never be diffed.
func (c *Client) Fetch(ctx context.Context) ([]entities.Listing, error) {

	body, err := c.sendRequest(ctx, http.MethodGet, c.url)
	if err != nil {
		return nil, err
	}

	var response requisitionsResponse
	if err = json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: error decoding JSON response: %v", ErrMalformedResponse, err)
	}

	if len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: response has no items", ErrMalformedResponse)
	}

	requisitions := response.Items[0].RequisitionList
	listings := make([]entities.Listing, 0, len(requisitions))

	for i, r := range requisitions {
		if missing := r.missingFields(); len(missing) > 0 {
			return nil, fmt.Errorf("%w: requisition #%d is missing %s",
				ErrMalformedResponse, i, strings.Join(missing, ", "))
		}

		id := string(r.ID)
		listings = append(listings, entities.NewListing(
			id, r.Title, r.PostedDate, r.ShortDescription, r.location(), c.linkBase+"/"+id))
	}

	return listings, nil
}

func (c *Client) sendRequest(ctx context.Context, method string, url string) ([]byte, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: error sending request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: error reading response body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: request failed with status %v", ErrUnavailable, resp.StatusCode)
	}

	return body, nil
}
