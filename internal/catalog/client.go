package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joestump/animeshelf/internal/metrics"
)

// DefaultBaseURL is the public Jikan v4 API.
const DefaultBaseURL = "https://api.jikan.moe/v4"

var (
	// ErrNetwork is returned when the catalog endpoint could not be reached or
	// answered with a non-2xx status.
	ErrNetwork = errors.New("catalog: network error")

	// ErrDecode is returned when the response body is not a listing payload.
	ErrDecode = errors.New("catalog: malformed listing payload")

	// ErrInvalidPage is returned for page numbers below 1.
	ErrInvalidPage = errors.New("catalog: page must be >= 1")
)

// Fetcher retrieves one page of the catalog listing.
type Fetcher interface {
	FetchPage(ctx context.Context, page int) (*Page, error)
}

// Client is the HTTP Fetcher for the top-anime listing. It issues exactly one
// request per call and never retries.
type Client struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

// NewClient creates a Client. A nil httpClient means http.DefaultClient; any
// timeout belongs on the httpClient the caller passes in.
func NewClient(baseURL string, httpClient *http.Client, log *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logrus.New()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		log:     log,
	}
}

type listingJSON struct {
	Data *[]json.RawMessage `json:"data"`
}

func (c *Client) FetchPage(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}

	start := time.Now()
	p, err := c.fetchPage(ctx, page)
	metrics.CatalogFetchDuration.Observe(time.Since(start).Seconds())

	entry := c.log.WithField("page", page)
	switch {
	case err == nil:
		metrics.CatalogFetchesTotal.WithLabelValues("ok").Inc()
		entry.WithField("items", len(p.Items)).Debug("catalog page fetched")
	case errors.Is(err, ErrDecode):
		metrics.CatalogFetchesTotal.WithLabelValues("decode_error").Inc()
		entry.WithError(err).Warn("catalog page decode failed")
	default:
		metrics.CatalogFetchesTotal.WithLabelValues("network_error").Inc()
		entry.WithError(err).Warn("catalog page fetch failed")
	}
	return p, err
}

func (c *Client) fetchPage(ctx context.Context, page int) (*Page, error) {
	endpoint := c.baseURL + "/top/anime?" + url.Values{"page": {strconv.Itoa(page)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: catalog returned %d", ErrNetwork, resp.StatusCode)
	}

	items, err := decodeListing(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &Page{Number: page, Items: items}, nil
}

// decodeListing requires a top-level object with a data array; every element
// must be a complete listing item.
func decodeListing(body []byte) ([]Item, error) {
	var listing listingJSON
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, err
	}
	if listing.Data == nil {
		return nil, errors.New("missing data array")
	}

	items := make([]Item, 0, len(*listing.Data))
	for i, raw := range *listing.Data {
		it, err := decodeItem(raw, true)
		if err != nil {
			return nil, fmt.Errorf("data[%d]: %w", i, err)
		}
		items = append(items, it)
	}
	return items, nil
}
