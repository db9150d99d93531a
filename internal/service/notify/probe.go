package notify

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/metrics"
)

type Prober interface {
	Online(ctx context.Context) bool
}

// ConnectivityProbe checks general internet reachability (TCP to a public
// resolver) and then the bot API host. Results are cached for cacheTTL.
type ConnectivityProbe struct {
	enabled     bool
	dnsAddr     string
	providerURL string
	timeout     time.Duration
	cacheTTL    time.Duration
	httpClient  *http.Client
	log         *zap.Logger

	mu        sync.Mutex
	checkedAt time.Time
	online    bool
	now       func() time.Time
}

func NewConnectivityProbe(cfg *config.Config, logger *zap.Logger) *ConnectivityProbe {
	return &ConnectivityProbe{
		enabled:     cfg.ProbeEnabled,
		dnsAddr:     cfg.ProbeDNSAddr,
		providerURL: cfg.TelegramAPIURL,
		timeout:     cfg.ProbeTimeout,
		cacheTTL:    cfg.ProbeCacheTTL,
		httpClient: &http.Client{
			Timeout: cfg.ProbeTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		log: logger,
		now: time.Now,
	}
}

func (p *ConnectivityProbe) Online(ctx context.Context) bool {
	if !p.enabled {
		return true
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.checkedAt.IsZero() && p.now().Sub(p.checkedAt) < p.cacheTTL {
		return p.online
	}

	p.online = p.check(ctx)
	p.checkedAt = p.now()
	return p.online
}

func (p *ConnectivityProbe) check(ctx context.Context) bool {
	if err := p.dialDNS(ctx); err != nil {
		metrics.ProbeFailuresTotal.WithLabelValues("dns").Inc()
		p.log.Warn("internet probe failed", zap.String("addr", p.dnsAddr), zap.Error(err))
		return false
	}
	if err := p.reachProvider(ctx); err != nil {
		metrics.ProbeFailuresTotal.WithLabelValues("provider").Inc()
		p.log.Warn("provider probe failed", zap.Error(err))
		return false
	}
	return true
}

func (p *ConnectivityProbe) dialDNS(ctx context.Context) error {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.dnsAddr)
	if err != nil {
		return err
	}
	return conn.Close()
}

// reachProvider treats any HTTP response as reachable; only transport
// errors count as failures.
func (p *ConnectivityProbe) reachProvider(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.providerURL, nil)
	if err != nil {
		return fmt.Errorf("provider probe request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
