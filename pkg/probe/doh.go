package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"dns-speedtest/pkg/wire"
)

// dnsMessageMediaType is the RFC 8484 media type for binary DNS messages.
const dnsMessageMediaType = "application/dns-message"

// HTTPSProbe measures DNS-over-HTTPS latency with a single POST carrying
// the binary query. The response body is drained but never decoded.
type HTTPSProbe struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPS creates a probe for the given DoH endpoint URL.
func NewHTTPS(url string, timeout time.Duration) *HTTPSProbe {
	if timeout <= 0 {
		timeout = DefaultDoHTimeout
	}
	return &HTTPSProbe{
		url:     url,
		timeout: timeout,
		client:  newDoHClient(timeout),
	}
}

// newDoHClient builds the HTTP client used for DoH probes. Keep-alives
// are disabled so every probe pays the full connection cost; reusing a
// warm connection would make later probes look faster than a cold client
// would ever see.
func newDoHClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		DisableKeepAlives:     true,
		ForceAttemptHTTP2:     true,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// URL returns the endpoint URL the probe targets.
func (p *HTTPSProbe) URL() string {
	return p.url
}

// Probe issues one POST and measures from just before the request until
// the full response is received and its status validated. Any status
// outside 2xx/3xx is a failure.
func (p *HTTPSProbe) Probe(ctx context.Context, domain string) Outcome {
	query, err := wire.Encode(domain)
	if err != nil {
		return Outcome{Err: fmt.Errorf("encode query: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(query))
	if err != nil {
		return Outcome{Err: fmt.Errorf("build request for %s: %w", p.url, err)}
	}
	req.Header.Set("Content-Type", dnsMessageMediaType)
	req.Header.Set("Accept", dnsMessageMediaType)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return Outcome{Err: fmt.Errorf("post query to %s: %w", p.url, err)}
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return Outcome{Err: fmt.Errorf("read response from %s: %w", p.url, err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return Outcome{Err: fmt.Errorf("unexpected status from %s: %s", p.url, resp.Status)}
	}
	return Outcome{Duration: time.Since(start)}
}
