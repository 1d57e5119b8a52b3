package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// FetchError reports a failed request to the metadata service. It is never
// retried here.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client is an HTTP implementation of Port. Catalogs and starters are cached
// per service URL for the lifetime of the client; concurrent requests for the
// same document share one round trip.
type Client struct {
	http     *http.Client
	logger   *log.Logger
	inflight singleflight.Group

	mu       sync.Mutex
	catalogs map[string]*Catalog
	starters map[string]*Starters
}

var _ Port = (*Client)(nil)

// NewClient returns a client using hc, or http.DefaultClient when nil.
func NewClient(hc *http.Client, logger *log.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		http:     hc,
		logger:   logger,
		catalogs: map[string]*Catalog{},
		starters: map[string]*Starters{},
	}
}

// Catalog fetches the overview document of serviceURL.
func (c *Client) Catalog(ctx context.Context, serviceURL string) (*Catalog, error) {
	key := baseURL(serviceURL)
	v, err, _ := c.inflight.Do(key, func() (any, error) {
		c.mu.Lock()
		cached, ok := c.catalogs[key]
		c.mu.Unlock()
		if ok {
			return cached, nil
		}
		var ov overview
		if err := c.getJSON(ctx, key, &ov); err != nil {
			return nil, err
		}
		cat := ov.catalog()

		c.mu.Lock()
		c.catalogs[key] = cat
		c.mu.Unlock()
		return cat, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Catalog), nil
}

// Starters fetches the dependency coordinates valid for bootVersion. The
// returned value is a private copy the caller may modify.
func (c *Client) Starters(ctx context.Context, serviceURL, bootVersion string) (*Starters, error) {
	key := baseURL(serviceURL) + "dependencies?bootVersion=" + url.QueryEscape(bootVersion)
	v, err, _ := c.inflight.Do(key, func() (any, error) {
		c.mu.Lock()
		cached, ok := c.starters[key]
		c.mu.Unlock()
		if ok {
			return cached, nil
		}
		var st Starters
		if err := c.getJSON(ctx, key, &st); err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.starters[key] = &st
		c.mu.Unlock()
		return &st, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Starters).clone(), nil
}

// FetchAll fetches the catalog and the starters of one platform version
// concurrently.
func (c *Client) FetchAll(ctx context.Context, serviceURL, bootVersion string) (*Catalog, *Starters, error) {
	var (
		cat *Catalog
		st  *Starters
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cat, err = c.Catalog(ctx, serviceURL)
		return err
	})
	g.Go(func() error {
		var err error
		st, err = c.Starters(ctx, serviceURL, bootVersion)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return cat, st, nil
}

// Download streams the archive generated for req into w.
func (c *Client) Download(ctx context.Context, req ProjectRequest, w io.Writer) error {
	target := req.URL()
	body, err := c.get(ctx, target, "")
	if err != nil {
		return err
	}
	defer body.Close()
	if _, err := io.Copy(w, body); err != nil {
		return &FetchError{URL: target, Err: err}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, target string, v any) error {
	body, err := c.get(ctx, target, MediaType)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return &FetchError{URL: target, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, target, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	c.logger.Debug("fetching", "url", target)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

func (s *Starters) clone() *Starters {
	out := *s
	out.Dependencies = maps.Clone(s.Dependencies)
	out.Repositories = maps.Clone(s.Repositories)
	out.Boms = maps.Clone(s.Boms)
	if out.Dependencies == nil {
		out.Dependencies = map[string]Starter{}
	}
	return &out
}

// baseURL normalizes a service location to end with a slash.
func baseURL(serviceURL string) string {
	return strings.TrimRight(serviceURL, "/") + "/"
}
