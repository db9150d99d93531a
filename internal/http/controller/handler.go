package controller

import (
	"context"

	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/domain"
	"linkbio/internal/model"
	"linkbio/internal/profile"
)

type Visits interface {
	HandleScreenInfo(ctx context.Context, token, ip, userAgent string, t *model.Telemetry) (domain.Outcome, error)
	Relay(ctx context.Context, text string) (domain.Outcome, error)
	Report(ctx context.Context, text string) (domain.Outcome, error)
}

type Handler struct {
	cfg     *config.Config
	visits  Visits
	profile *profile.Profile
	log     *zap.Logger
}

func NewHandler(cfg *config.Config, visits Visits, p *profile.Profile, logger *zap.Logger) *Handler {
	return &Handler{cfg: cfg, visits: visits, profile: p, log: logger}
}
