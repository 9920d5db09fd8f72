// Package crates implements the version index client for the crates.io
// registry API.
package crates

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cenk/backoff"
	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/dnscache"
	circuit "github.com/rubyist/circuitbreaker"

	"github.com/binup-dev/binup/pkg/domain/types"
)

// DefaultBaseURL is the crates.io API endpoint.
const DefaultBaseURL = "https://crates.io"

// Client queries the crates.io API for published versions of a crate. It is
// not safe for concurrent use; the collector gives each worker its own
// instance.
type Client struct {
	client     *http.Client
	baseURL    string
	token      string
	userAgent  string
	maxRetries int
	baseDelay  time.Duration
	breaker    *circuit.Breaker
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at an alternate API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithToken sets the Authorization token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithMaxRetries sets the maximum retry attempts per lookup.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// New creates a crates.io client. The default transport caches DNS lookups so
// a large install set does not re-resolve the registry host per package.
func New(opts ...Option) *Client {
	resolver := &dnscache.Resolver{}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			resolver.Refresh(true)
		}
	}()

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	c := &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					host, port, err := net.SplitHostPort(addr)
					if err != nil {
						return nil, err
					}
					ips, err := resolver.LookupHost(ctx, host)
					if err != nil {
						return nil, err
					}
					for _, ip := range ips {
						conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
						if err == nil {
							return conn, nil
						}
					}
					return nil, fmt.Errorf("failed to dial any resolved IP for %s", host)
				},
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		baseURL:    DefaultBaseURL,
		userAgent:  fmt.Sprintf("%s/%s", types.AppName, types.Version),
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
		breaker:    circuit.NewThresholdBreaker(5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type crateResponse struct {
	Versions []versionInfo `json:"versions"`
}

type versionInfo struct {
	Num    string `json:"num"`
	Yanked bool   `json:"yanked"`
}

// Versions returns the published, non-yanked version strings of a crate,
// newest first (the API's publication order).
func (c *Client) Versions(ctx context.Context, name string) ([]string, error) {
	if !c.breaker.Ready() {
		return nil, goerr.Wrap(types.ErrNetwork, "registry circuit breaker open",
			goerr.V("package", name))
	}

	var versions []string
	op := func() error {
		vs, err := c.fetchVersions(ctx, name)
		if err != nil {
			if goerr.HasTag(err, types.TagRegistry) {
				// Not found and malformed responses don't heal on retry.
				return backoff.Permanent(err)
			}
			return err
		}
		versions = vs
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.baseDelay
	retry := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.maxRetries)), ctx)

	if err := c.breaker.Call(func() error {
		return backoff.Retry(op, retry)
	}, 0); err != nil {
		return nil, err
	}
	return versions, nil
}

func (c *Client) fetchVersions(ctx context.Context, name string) ([]string, error) {
	url := fmt.Sprintf("%s/api/v1/crates/%s", c.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "cannot build registry request", goerr.V("package", name))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(types.ErrNetwork, "registry request failed",
			goerr.V("package", name), goerr.V("cause", err.Error()))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, goerr.Wrap(types.ErrPackageNotFound, "registry has no such package",
			goerr.V("package", name))
	default:
		return nil, goerr.Wrap(types.ErrNetwork, "unexpected registry status",
			goerr.V("package", name), goerr.V("status", resp.StatusCode))
	}

	var decoded crateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, goerr.Wrap(types.ErrInvalidUpstreamVersion, "registry response is not valid JSON",
			goerr.V("package", name))
	}

	versions := make([]string, 0, len(decoded.Versions))
	for _, v := range decoded.Versions {
		if v.Yanked {
			continue
		}
		versions = append(versions, v.Num)
	}
	return versions, nil
}
