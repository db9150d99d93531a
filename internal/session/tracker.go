package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/metrics"
	"linkbio/internal/model"
	"linkbio/internal/repository"
)

// Tracker decides whether a page request is a new visit and keeps the
// per-IP screen reports used to enrich later notifications.
type Tracker struct {
	visitors      repository.VisitorRepository
	screens       repository.ScreenRepository
	ttl           time.Duration
	screenTTL     time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	log           *zap.Logger
}

func NewTracker(cfg *config.Config, visitors repository.VisitorRepository, screens repository.ScreenRepository, logger *zap.Logger) *Tracker {
	return &Tracker{
		visitors:      visitors,
		screens:       screens,
		ttl:           cfg.SessionTTL,
		screenTTL:     cfg.ScreenInfoTTL,
		sweepInterval: cfg.SweepInterval,
		now:           time.Now,
		log:           logger,
	}
}

// Classify registers a page request. A missing, unknown or expired token
// gets a fresh one (Issued). A live token counts as new until the visitor
// has been notified once.
func (t *Tracker) Classify(ctx context.Context, token, ip string) (model.Visit, error) {
	now := t.now()

	if token != "" {
		v, ok, err := t.visitors.GetVisitor(ctx, token)
		if err != nil {
			return model.Visit{}, fmt.Errorf("get visitor: %w", err)
		}
		if ok && !t.expired(v.LastSeen, now) {
			v.LastSeen = now
			v.IP = ip
			if err := t.visitors.SaveVisitor(ctx, v); err != nil {
				return model.Visit{}, fmt.Errorf("save visitor: %w", err)
			}
			visit := model.Visit{Token: v.Token, IP: ip, New: !v.Notified}
			metrics.RecordVisit(visit.New)
			return visit, nil
		}
	}

	v := model.Visitor{
		Token:     uuid.NewString(),
		IP:        ip,
		FirstSeen: now,
		LastSeen:  now,
	}
	if err := t.visitors.SaveVisitor(ctx, v); err != nil {
		return model.Visit{}, fmt.Errorf("save visitor: %w", err)
	}
	metrics.RecordVisit(true)
	return model.Visit{Token: v.Token, IP: ip, New: true, Issued: true}, nil
}

// Lookup returns a live visitor. Expired entries are reported as missing.
func (t *Tracker) Lookup(ctx context.Context, token string) (model.Visitor, bool, error) {
	if token == "" {
		return model.Visitor{}, false, nil
	}
	v, ok, err := t.visitors.GetVisitor(ctx, token)
	if err != nil {
		return model.Visitor{}, false, fmt.Errorf("get visitor: %w", err)
	}
	if !ok || t.expired(v.LastSeen, t.now()) {
		return model.Visitor{}, false, nil
	}
	return v, true, nil
}

func (t *Tracker) MarkNotified(ctx context.Context, token string) error {
	return t.update(ctx, token, func(v *model.Visitor) { v.Notified = true })
}

func (t *Tracker) SetPreamble(ctx context.Context, token, preamble string) error {
	return t.update(ctx, token, func(v *model.Visitor) { v.Preamble = preamble })
}

func (t *Tracker) RecordScreen(ctx context.Context, ip string, width, height int, scale float64) error {
	return t.screens.SaveScreen(ctx, model.ScreenRecord{
		IP:         ip,
		Width:      width,
		Height:     height,
		Scale:      scale,
		ReportedAt: t.now(),
	})
}

// RecentScreen returns the screen report for ip if it arrived within the
// screen-info TTL.
func (t *Tracker) RecentScreen(ctx context.Context, ip string) (model.ScreenRecord, bool) {
	r, ok, err := t.screens.GetScreen(ctx, ip)
	if err != nil {
		t.log.Warn("get screen record failed", zap.String("ip", ip), zap.Error(err))
		return model.ScreenRecord{}, false
	}
	if !ok || t.now().Sub(r.ReportedAt) > t.screenTTL {
		return model.ScreenRecord{}, false
	}
	return r, true
}

// Sweep drops idle visitors and stale screen records.
func (t *Tracker) Sweep(ctx context.Context) error {
	now := t.now()
	visitors, err := t.visitors.DeleteVisitorsBefore(ctx, now.Add(-t.ttl))
	if err != nil {
		return fmt.Errorf("sweep visitors: %w", err)
	}
	screens, err := t.screens.DeleteScreensBefore(ctx, now.Add(-t.screenTTL))
	if err != nil {
		return fmt.Errorf("sweep screens: %w", err)
	}
	if n, err := t.visitors.CountVisitors(ctx); err == nil {
		metrics.TrackedVisitors.Set(float64(n))
	}
	if visitors > 0 || screens > 0 {
		t.log.Debug("tracker swept",
			zap.Int("visitors_removed", visitors),
			zap.Int("screens_removed", screens),
		)
	}
	return nil
}

// Run sweeps on a ticker until ctx is done.
func (t *Tracker) Run(ctx context.Context) {
	interval := t.sweepInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.Sweep(ctx); err != nil {
				t.log.Error("tracker sweep failed", zap.Error(err))
			}
		}
	}
}

func (t *Tracker) expired(lastSeen, now time.Time) bool {
	return now.Sub(lastSeen) > t.ttl
}

func (t *Tracker) update(ctx context.Context, token string, fn func(*model.Visitor)) error {
	v, ok, err := t.visitors.GetVisitor(ctx, token)
	if err != nil {
		return fmt.Errorf("get visitor: %w", err)
	}
	if !ok {
		return nil
	}
	fn(&v)
	if err := t.visitors.SaveVisitor(ctx, v); err != nil {
		return fmt.Errorf("save visitor: %w", err)
	}
	return nil
}
