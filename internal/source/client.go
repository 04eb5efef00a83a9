package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/unisport/internal/logger"
)

const (
	CoursesURL   = "https://api.unisport.berlin/classes"
	LocationsURL = "https://api.unisport.berlin/locations"
	UserAgent    = "unisport-catalog/1.0 (github.com/pfrederiksen/unisport)"
	Timeout      = 30 * time.Second
)

// Client fetches raw course and location data from the provider API
type Client struct {
	httpClient   *http.Client
	coursesURL   string
	locationsURL string
}

// Option configures a Client
type Option func(*Client)

// WithURLs overrides the two endpoint URLs
func WithURLs(coursesURL, locationsURL string) Option {
	return func(c *Client) {
		c.coursesURL = coursesURL
		c.locationsURL = locationsURL
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a new Client for the public unisport API
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: Timeout,
		},
		coursesURL:   CoursesURL,
		locationsURL: LocationsURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the API's response wrapper. Records are decoded one by one.
type envelope struct {
	Data []json.RawMessage `json:"data"`
}

// Fetch requests both collections concurrently. It fails if either request
// fails; there is no partial result.
func (c *Client) Fetch(ctx context.Context) (*Dataset, error) {
	var ds Dataset

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		courses, err := fetchData[RawCourse](ctx, c.httpClient, c.coursesURL)
		if err != nil {
			return fmt.Errorf("fetching courses: %w", err)
		}
		ds.Courses = courses
		return nil
	})
	g.Go(func() error {
		locations, err := fetchData[RawLocation](ctx, c.httpClient, c.locationsURL)
		if err != nil {
			return fmt.Errorf("fetching locations: %w", err)
		}
		ds.Locations = locations
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// fetchData GETs url and decodes the data field of the envelope.
// Records that are not objects are skipped.
func fetchData[T any](ctx context.Context, client *http.Client, url string) ([]T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("response has no data field")
	}

	records := make([]T, 0, len(env.Data))
	skipped := 0
	for _, raw := range env.Data {
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			skipped++
			continue
		}
		records = append(records, record)
	}
	if skipped > 0 {
		logger.IncrCounter("source.records_skipped")
		logger.Warn("skipped malformed records", logger.Fields{"url": url, "skipped": skipped})
	}

	return records, nil
}
