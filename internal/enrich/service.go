package enrich

import (
	"context"

	"go.uber.org/zap"

	"linkbio/internal/model"
)

type Geolocator interface {
	Lookup(ctx context.Context, ip string) (model.GeoInfo, error)
}

type Service struct {
	geo Geolocator
	log *zap.Logger
}

func NewService(geo *GeoClient, logger *zap.Logger) *Service {
	return newService(geo, logger)
}

func newService(geo Geolocator, logger *zap.Logger) *Service {
	return &Service{geo: geo, log: logger}
}

// Profile gathers everything known about a visitor. Lookup errors are logged
// and replaced with placeholders.
func (s *Service) Profile(ctx context.Context, ip, userAgent string) model.VisitorProfile {
	geo, err := s.geo.Lookup(ctx, ip)
	if err != nil {
		s.log.Warn("geolocation unavailable", zap.String("ip", ip), zap.Error(err))
	}
	return model.VisitorProfile{
		IP:    ip,
		Geo:   geo,
		Agent: ParseUserAgent(userAgent),
	}
}
