package data

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moviehub/internal/biz"
	"moviehub/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

var errMetadataNotFound = errors.New("not found")

const (
	defaultMetadataTimeout = 5 * time.Second
	breakerFailureLimit    = 5
	breakerOpenTimeout     = 30 * time.Second
)

type metadataClient struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	breaker    *gobreaker.CircuitBreaker[*biz.MovieMetadata]
	log        *log.Helper
}

// NewMetadataClient creates a client for an OMDb-compatible API. Without a
// configured URL the client is disabled and every lookup returns nil.
func NewMetadataClient(c *conf.Metadata, logger log.Logger) biz.MetadataClient {
	l := log.NewHelper(logger)
	if c == nil || c.URL == "" {
		l.Info("metadata enrichment disabled")
		return disabledMetadata{}
	}

	timeout := c.Timeout.AsDuration()
	if timeout <= 0 {
		timeout = defaultMetadataTimeout
	}
	mc := &metadataClient{
		client:     &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(c.URL, "/"),
		apiKey:     c.APIKey,
		maxRetries: int(c.MaxRetries),
		log:        l,
	}
	mc.breaker = gobreaker.NewCircuitBreaker[*biz.MovieMetadata](gobreaker.Settings{
		Name:    "metadata",
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureLimit
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errMetadataNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warnf("circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	return mc
}

// LookupMovie returns metadata for the title, nil when the API has no match.
func (c *metadataClient) LookupMovie(ctx context.Context, title string, year int) (*biz.MovieMetadata, error) {
	md, err := c.breaker.Execute(func() (*biz.MovieMetadata, error) {
		return c.lookupWithRetry(ctx, title, year)
	})
	if errors.Is(err, errMetadataNotFound) {
		c.log.Infof("no metadata for '%s' (%d)", title, year)
		return nil, nil
	}
	return md, err
}

func (c *metadataClient) lookupWithRetry(ctx context.Context, title string, year int) (*biz.MovieMetadata, error) {
	var lastErr error

	// Retry logic with linear backoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 100 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			c.log.Infof("retrying metadata request for '%s', attempt %d/%d", title, attempt, c.maxRetries)
		}

		md, err := c.doRequest(ctx, title, year)
		if err == nil {
			return md, nil
		}
		lastErr = err

		// Don't retry on 404
		if errors.Is(err, errMetadataNotFound) {
			return nil, err
		}
	}

	c.log.Warnf("metadata request failed after %d attempts: %v", c.maxRetries+1, lastErr)
	return nil, lastErr
}

type omdbResponse struct {
	Runtime  string `json:"Runtime"`
	Genre    string `json:"Genre"`
	Director string `json:"Director"`
	Actors   string `json:"Actors"`
	Plot     string `json:"Plot"`
	Poster   string `json:"Poster"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func (c *metadataClient) doRequest(ctx context.Context, title string, year int) (*biz.MovieMetadata, error) {
	query := url.Values{}
	query.Set("t", title)
	if year > 0 {
		query.Set("y", strconv.Itoa(year))
	}
	if c.apiKey != "" {
		query.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Handle non-200 responses
	if resp.StatusCode == http.StatusNotFound {
		return nil, errMetadataNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if strings.EqualFold(body.Response, "False") {
		return nil, errMetadataNotFound
	}

	md := &biz.MovieMetadata{
		Director:  known(body.Director),
		Actors:    biz.ParseActors(known(body.Actors)),
		Plot:      known(body.Plot),
		PosterURL: known(body.Poster),
		Genres:    biz.ParseActors(known(body.Genre)),
	}
	if mins, ok := parseRuntime(body.Runtime); ok {
		md.RuntimeMins = &mins
	}
	return md, nil
}

// known maps OMDb's "N/A" placeholder to the empty string.
func known(s string) string {
	s = strings.TrimSpace(s)
	if s == "N/A" {
		return ""
	}
	return s
}

// parseRuntime reads "136 min".
func parseRuntime(s string) (int, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	mins, err := strconv.Atoi(fields[0])
	if err != nil || mins <= 0 {
		return 0, false
	}
	return mins, true
}

type disabledMetadata struct{}

func (disabledMetadata) LookupMovie(context.Context, string, int) (*biz.MovieMetadata, error) {
	return nil, nil
}
