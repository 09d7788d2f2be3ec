// Package embedding is the HTTP client for the external embedding and
// approximate-neighbor index. Calls carry a bounded timeout and are never
// retried here; retry policy belongs to the caller
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nichelens/internal/core/cluster"
	perr "nichelens/internal/platform/errors"
	"nichelens/internal/platform/logger"
)

const (
	defaultTimeout = 5 * time.Second
	defaultUA      = "nichelens-embedding"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
}

// Client talks to the embedding service. Implements cluster.NeighborFinder
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// NewClient creates a Client with sane defaults. BaseURL is required
func NewClient(o Options) (*Client, error) {
	if o.BaseURL == "" {
		return nil, perr.InvalidArgf("embedding base url required")
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("embedding"),
		now:  time.Now,
	}, nil
}

type embeddingsRequest struct {
	LeadIDs []string `json:"lead_ids"`
}

type embeddingsResponse struct {
	Embeddings map[string][]float32 `json:"embeddings"`
}

// Embeddings fetches precomputed vectors for a batch of lead ids. Leads the
// index has never seen are simply absent from the result
func (c *Client) Embeddings(ctx context.Context, leadIDs []string) (map[string][]float32, error) {
	if len(leadIDs) == 0 {
		return map[string][]float32{}, nil
	}
	var out embeddingsResponse
	if err := c.post(ctx, "/v1/embeddings/lookup", embeddingsRequest{LeadIDs: leadIDs}, &out); err != nil {
		return nil, err
	}
	if out.Embeddings == nil {
		out.Embeddings = map[string][]float32{}
	}
	return out.Embeddings, nil
}

type neighborsRequest struct {
	LeadID        string  `json:"lead_id"`
	Limit         int     `json:"limit"`
	MinSimilarity float64 `json:"min_similarity"`
}

type neighborsResponse struct {
	Neighbors []struct {
		LeadID     string  `json:"lead_id"`
		Similarity float64 `json:"similarity"`
	} `json:"neighbors"`
}

// Neighbors performs an approximate-neighbor lookup for one lead
func (c *Client) Neighbors(ctx context.Context, leadID string, limit int, minSimilarity float64) ([]cluster.Neighbor, error) {
	var out neighborsResponse
	req := neighborsRequest{LeadID: leadID, Limit: limit, MinSimilarity: minSimilarity}
	if err := c.post(ctx, "/v1/neighbors", req, &out); err != nil {
		return nil, err
	}
	neighbors := make([]cluster.Neighbor, 0, len(out.Neighbors))
	for _, n := range out.Neighbors {
		neighbors = append(neighbors, cluster.Neighbor{ID: n.LeadID, Similarity: n.Similarity})
	}
	return neighbors, nil
}

// Ping verifies the index answers at all, for readiness checks
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/v1/healthz", nil)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "embedding ping request")
	}
	c.setHeaders(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "embedding index unreachable")
	}
	defer drain(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return perr.Unavailablef("embedding index health returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "embedding request encode")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "embedding new request")
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)
	if err != nil {
		// timeouts and transport failures are dependency failures
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "embedding %s failed", path)
	}
	defer drain(resp.Body)

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("embedding http response")

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "embedding %s decode", path)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return perr.NotFoundf("embedding %s: not found", path)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return perr.Unavailablef("embedding %s returned %d", path, resp.StatusCode)
	default:
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return perr.Newf(perr.ErrorCodeUnknown, "embedding %s unexpected status %d body %s", path, resp.StatusCode, string(tail))
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.opts.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.opts.APIKey))
	}
}

func drain(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 4096))
	_ = rc.Close()
}
