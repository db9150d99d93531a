package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/domain"
	"linkbio/internal/metrics"
	"linkbio/internal/model"
	"linkbio/internal/telemetry"
)

const (
	geoFields    = "status,message,country,countryCode,regionName,city,isp,org,timezone,mobile,proxy,hosting"
	localNetwork = "Local network"
)

// GeoClient resolves IP addresses through an ip-api compatible endpoint.
type GeoClient struct {
	client  *http.Client
	baseURL string
	lang    string
	cb      *gobreaker.CircuitBreaker[model.GeoInfo]
	log     *zap.Logger
}

type geoResponse struct {
	model.GeoInfo
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewGeoClient(cfg *config.Config, logger *zap.Logger) *GeoClient {
	g := &GeoClient{
		client:  &http.Client{Timeout: cfg.GeoTimeout},
		baseURL: cfg.GeoAPIURL,
		lang:    cfg.GeoLang,
		log:     logger,
	}
	metrics.GeoBreakerState.Set(0)
	g.cb = gobreaker.NewCircuitBreaker[model.GeoInfo](gobreaker.Settings{
		Name:        "geo-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("geo breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.GeoBreakerState.Set(float64(to))
		},
	})
	return g
}

// Placeholder is the geo record used when a lookup is impossible.
func Placeholder() model.GeoInfo {
	return model.GeoInfo{
		Country: domain.Unknown,
		City:    domain.Unknown,
		ISP:     domain.Unknown,
		Org:     domain.Unknown,
	}
}

// Lookup never fails the caller: on error it returns placeholder values
// together with the cause.
func (g *GeoClient) Lookup(ctx context.Context, ip string) (model.GeoInfo, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		metrics.GeoLookupsTotal.WithLabelValues("error").Inc()
		return Placeholder(), fmt.Errorf("invalid ip %q", ip)
	}
	if isLocal(parsed) {
		metrics.GeoLookupsTotal.WithLabelValues("local").Inc()
		return model.GeoInfo{Country: localNetwork, City: localNetwork, ISP: localNetwork, Org: localNetwork}, nil
	}

	ctx, span := telemetry.Tracer("enrich").Start(ctx, "geo.lookup")
	span.SetAttributes(attribute.String("net.peer.ip", ip))
	defer span.End()

	info, err := g.cb.Execute(func() (model.GeoInfo, error) {
		return g.fetch(ctx, parsed.String())
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "geo lookup failed")
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.GeoLookupsTotal.WithLabelValues("breaker_open").Inc()
		} else {
			metrics.GeoLookupsTotal.WithLabelValues("error").Inc()
		}
		return Placeholder(), err
	}
	metrics.GeoLookupsTotal.WithLabelValues("ok").Inc()
	return fillUnknown(info), nil
}

func (g *GeoClient) fetch(ctx context.Context, ip string) (model.GeoInfo, error) {
	q := url.Values{}
	q.Set("fields", geoFields)
	if g.lang != "" {
		q.Set("lang", g.lang)
	}
	endpoint := fmt.Sprintf("%s/json/%s?%s", g.baseURL, url.PathEscape(ip), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.GeoInfo{}, fmt.Errorf("geo request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return model.GeoInfo{}, fmt.Errorf("geo request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.GeoInfo{}, fmt.Errorf("geo request: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<10))
	if err != nil {
		return model.GeoInfo{}, fmt.Errorf("geo read: %w", err)
	}

	var out geoResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return model.GeoInfo{}, fmt.Errorf("geo decode: %w", err)
	}
	if out.Status != "" && out.Status != "success" {
		return model.GeoInfo{}, fmt.Errorf("geo lookup: %s", out.Message)
	}
	return out.GeoInfo, nil
}

func isLocal(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()
}

func fillUnknown(info model.GeoInfo) model.GeoInfo {
	for _, f := range []*string{&info.Country, &info.City, &info.ISP, &info.Org} {
		if *f == "" {
			*f = domain.Unknown
		}
	}
	return info
}
