package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"

	"github.com/brfin/newswire/pkg/httpclient"
)

// robotsGate checks article URLs against their host's robots.txt before a
// fetch. Lookups are cached per host for the lifetime of the Fetcher and
// fail open: an unreachable or malformed robots.txt allows the fetch.
type robotsGate struct {
	client *httpclient.Client
	logger *slog.Logger
	mu     sync.RWMutex
	cache  map[string]*robotstxt.RobotsData
}

func newRobotsGate(client *httpclient.Client, logger *slog.Logger) *robotsGate {
	return &robotsGate{
		client: client,
		logger: logger,
		cache:  make(map[string]*robotstxt.RobotsData),
	}
}

func (g *robotsGate) allowed(ctx context.Context, u *url.URL, agent string) bool {
	host := u.Scheme + "://" + u.Host

	data := g.getOrFetch(ctx, host)
	if data == nil {
		return true
	}

	return data.FindGroup(agent).Test(u.Path)
}

func (g *robotsGate) getOrFetch(ctx context.Context, host string) *robotstxt.RobotsData {
	g.mu.RLock()
	data, exists := g.cache[host]
	g.mu.RUnlock()
	if exists {
		return data
	}

	data = g.fetch(ctx, host)

	g.mu.Lock()
	g.cache[host] = data
	g.mu.Unlock()
	return data
}

// fetch returns nil when robots.txt cannot be retrieved or parsed, which
// callers treat as allow-all.
func (g *robotsGate) fetch(ctx context.Context, host string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/robots.txt", nil)
	if err != nil {
		return nil
	}

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		g.logger.Debug("robots.txt fetch failed, defaulting to allow", "host", host, "err", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		g.logger.Debug("robots.txt parse failed, defaulting to allow", "host", host, "err", err)
		return nil
	}
	return data
}
