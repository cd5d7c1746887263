package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/brfin/newswire/internal/fingerprint"
	"github.com/brfin/newswire/internal/metrics"
	"github.com/brfin/newswire/pkg/httpclient"
	"github.com/brfin/newswire/pkg/useragent"
)

// Kind classifies the outcome of a single page fetch.
type Kind string

const (
	KindOK           Kind = "ok"
	KindTimeout      Kind = "timeout"
	KindInvalidURL   Kind = "invalid_url"
	KindHTTPStatus   Kind = "http_status"
	KindConnection   Kind = "connection_error"
	KindRobotsDenied Kind = "robots_denied"
)

// Result is the outcome of fetching one URL. Exactly one Result is
// produced per submitted URL; failures are recorded here, never returned
// as errors, so one unreachable host cannot abort a batch.
type Result struct {
	ID         string
	URL        string
	Body       string
	StatusCode int
	Kind       Kind
	Error      string
	Duration   time.Duration
	CreatedAt  time.Time
}

// OK reports whether the fetch produced a usable body.
func (r *Result) OK() bool {
	return r.Kind == KindOK
}

// Config configures a Fetcher.
type Config struct {
	// Timeout bounds each individual fetch. Defaults to 10s.
	Timeout      time.Duration
	MaxRedirects int
	UAPool       *useragent.Pool
	Fingerprint  fingerprint.Profile
	// RespectRobots gates each fetch on the host's robots.txt.
	RespectRobots bool
	// RobotsAgent is the agent name matched against robots.txt groups.
	RobotsAgent string
}

// Fetcher downloads article pages. One Fetcher holds one HTTP client, so
// all fetches in a batch share a single connection pool; the pipeline
// creates a Fetcher per run and discards it afterwards.
type Fetcher struct {
	cfg    Config
	client *httpclient.Client
	robots *robotsGate
	logger *slog.Logger
}

// NewFetcher initializes a Fetcher with the given configuration.
func NewFetcher(cfg Config, logger *slog.Logger) (*Fetcher, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = httpclient.DefaultTimeout
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	if cfg.RobotsAgent == "" {
		cfg.RobotsAgent = "*"
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport, err := fingerprint.Transport(cfg.Fingerprint)
	if err != nil {
		return nil, err
	}

	f := &Fetcher{
		cfg: cfg,
		client: httpclient.New(httpclient.Config{
			Timeout:      cfg.Timeout,
			MaxRedirects: cfg.MaxRedirects,
			Transport:    transport,
		}),
		logger: logger,
	}
	if cfg.RespectRobots {
		f.robots = newRobotsGate(f.client, logger)
	}
	return f, nil
}

// Fetch executes a GET request for targetURL and classifies the outcome.
// All transport, URL, and timeout errors are converted into the Result;
// the only way a caller sees them is through Kind and Error.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) *Result {
	start := time.Now()
	result := &Result{
		ID:        uuid.New().String(),
		URL:       targetURL,
		Kind:      KindOK,
		CreatedAt: start.UTC(),
	}

	defer func() {
		result.Duration = time.Since(start)
		metrics.RecordFetch(string(result.Kind), result.Duration, len(result.Body))
	}()

	u, err := url.Parse(targetURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		result.Kind = KindInvalidURL
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Error = "not an absolute http(s) url"
		}
		return result
	}

	if f.robots != nil {
		if !f.robots.allowed(ctx, u, f.cfg.RobotsAgent) {
			result.Kind = KindRobotsDenied
			result.Error = "disallowed by robots.txt"
			return result
		}
	}

	// Each fetch carries its own timeout; expiry affects only this URL.
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		result.Kind = KindInvalidURL
		result.Error = err.Error()
		return result
	}

	req.Header.Set("User-Agent", f.cfg.UAPool.Next())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.5")

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		result.Kind = classifyTransportError(err)
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Kind = classifyTransportError(err)
		result.Error = err.Error()
		return result
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Kind = KindHTTPStatus
		result.Error = resp.Status
		return result
	}

	result.Body = string(body)
	return result
}

func classifyTransportError(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindConnection
}
