package health

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime"
)

// HTTPProbe returns a probe that issues a GET against url and passes
// on any 2xx response. A nil client falls back to http.DefaultClient;
// in practice callers should supply a client, since the probe timeout
// cancels the request through ctx but a client-level timeout bounds
// connection reuse too.
func HTTPProbe(client *http.Client, url string) Probe {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		}
		return nil
	}
}

// TCPProbe returns a probe that passes when a TCP connection to addr
// can be established.
func TCPProbe(addr string) Probe {
	return func(ctx context.Context) error {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		return conn.Close()
	}
}

// MemoryProbe returns a probe that fails once the runtime's allocated
// heap exceeds the given fraction of maxAlloc bytes. With maxAlloc 0
// the runtime's own Sys figure is used, which only catches runaway
// growth relative to what the process already claimed.
func MemoryProbe(maxAlloc uint64, critical float64) Probe {
	if critical <= 0 || critical > 1 {
		critical = 0.95
	}
	return func(_ context.Context) error {
		var stats runtime.MemStats
		runtime.ReadMemStats(&stats)

		limit := maxAlloc
		if limit == 0 {
			limit = stats.Sys
		}
		if limit == 0 {
			return nil
		}

		ratio := float64(stats.Alloc) / float64(limit)
		if ratio >= critical {
			return fmt.Errorf("memory usage critical: %.1f%%", ratio*100)
		}
		return nil
	}
}
