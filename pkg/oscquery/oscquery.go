// Package oscquery locates the consumer's parameter-query HTTP service
// over mDNS and fetches avatar parameter manifests from it.
package oscquery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/avosc/avosc/internal/httpc"
	"github.com/avosc/avosc/internal/log"
	"github.com/avosc/avosc/pkg/avatar"
)

const (
	mdnsService    = "_oscjson._tcp"
	mdnsDomain     = "local."
	instancePrefix = "VRChat-Client"

	// Big avatars publish thousands of parameters.
	maxManifestBytes = 4 << 20
)

// Service is one discovered query endpoint.
type Service struct {
	Instance string
	Host     string
	Port     int
}

// URL returns the service's HTTP base.
func (s Service) URL() string {
	return fmt.Sprintf("http://%s:%d", s.Host, s.Port)
}

// Discover browses for the consumer's query service until one shows up
// or ctx expires.
func Discover(ctx context.Context) (Service, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return Service{}, fmt.Errorf("mdns resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry, 8)
	found := make(chan Service, 1)
	go func() {
		for entry := range entries {
			svc, ok := fromEntry(entry)
			if !ok {
				continue
			}
			select {
			case found <- svc:
			default:
			}
		}
	}()

	if err := resolver.Browse(ctx, mdnsService, mdnsDomain, entries); err != nil {
		return Service{}, fmt.Errorf("mdns browse: %w", err)
	}

	select {
	case svc := <-found:
		log.Info("query service discovered", "instance", svc.Instance, "url", svc.URL())
		return svc, nil
	case <-ctx.Done():
		return Service{}, fmt.Errorf("query service discovery: %w", ctx.Err())
	}
}

// fromEntry keeps only the consumer's own instances; other OSC apps
// advertise on the same service type.
func fromEntry(entry *zeroconf.ServiceEntry) (Service, bool) {
	if entry == nil || !strings.HasPrefix(entry.Instance, instancePrefix) {
		return Service{}, false
	}
	svc := Service{Instance: entry.Instance, Port: entry.Port}
	switch {
	case len(entry.AddrIPv4) > 0:
		svc.Host = entry.AddrIPv4[0].String()
	case entry.HostName != "":
		svc.Host = strings.TrimSuffix(entry.HostName, ".")
	default:
		return Service{}, false
	}
	return svc, true
}

// Fetch pulls the avatar parameter subtree from a service.
func Fetch(ctx context.Context, svc Service) (*avatar.Manifest, error) {
	url := svc.URL() + "/avatar"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("manifest request: %w", err)
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch manifest: %s returned %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return avatar.ParseQueryTree(data)
}

// Client caches the discovered service across manifest reloads and
// rediscovers when it stops answering.
type Client struct {
	mu      sync.Mutex
	svc     *Service
	timeout time.Duration
}

// NewClient returns a client that bounds each discovery attempt by
// discoverTimeout.
func NewClient(discoverTimeout time.Duration) *Client {
	if discoverTimeout <= 0 {
		discoverTimeout = 5 * time.Second
	}
	return &Client{timeout: discoverTimeout}
}

// Manifest fetches the current avatar's parameter manifest,
// discovering the query service first when none is cached. A fetch
// failure drops the cached service so the next call rediscovers.
func (c *Client) Manifest(ctx context.Context) (*avatar.Manifest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.svc == nil {
		dctx, cancel := context.WithTimeout(ctx, c.timeout)
		svc, err := Discover(dctx)
		cancel()
		if err != nil {
			return nil, err
		}
		c.svc = &svc
	}

	m, err := Fetch(ctx, *c.svc)
	if err != nil {
		c.svc = nil
		return nil, err
	}
	return m, nil
}
