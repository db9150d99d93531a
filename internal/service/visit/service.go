package visit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"linkbio/internal/domain"
	"linkbio/internal/model"
	"linkbio/internal/session"
)

type Enricher interface {
	Profile(ctx context.Context, ip, userAgent string) model.VisitorProfile
}

type Notifier interface {
	Send(ctx context.Context, msg model.Message) (domain.Outcome, error)
}

// Service turns page requests and client telemetry into notifications.
type Service struct {
	tracker  *session.Tracker
	enricher Enricher
	notifier Notifier
	now      func() time.Time
	log      *zap.Logger
}

func NewService(tracker *session.Tracker, enricher Enricher, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		tracker:  tracker,
		enricher: enricher,
		notifier: notifier,
		now:      time.Now,
		log:      logger,
	}
}

// PageRequest describes one tracked GET request.
type PageRequest struct {
	Token     string
	IP        string
	UserAgent string
	Path      string
}

// HandlePageVisit classifies the request and notifies about new visits.
// Notification problems are logged, never returned; only tracker failures
// produce an error.
func (s *Service) HandlePageVisit(ctx context.Context, req PageRequest) (model.Visit, error) {
	visit, err := s.tracker.Classify(ctx, req.Token, req.IP)
	if err != nil {
		return model.Visit{}, fmt.Errorf("classify visit: %w", err)
	}
	if !visit.New {
		return visit, nil
	}

	profile := s.enricher.Profile(ctx, req.IP, req.UserAgent)
	preamble := renderPreamble(s.now(), profile)
	if err := s.tracker.SetPreamble(ctx, visit.Token, preamble); err != nil {
		s.log.Warn("cache preamble failed", zap.Error(err))
	}

	var screen *model.ScreenRecord
	if r, ok := s.tracker.RecentScreen(ctx, req.IP); ok {
		screen = &r
	}

	outcome, err := s.notifier.Send(ctx, model.Message{
		Text:      renderVisit(preamble, req.Path, screen),
		ParseMode: model.ParseModeHTML,
	})
	if err != nil {
		s.log.Warn("visit notification not delivered",
			zap.String("ip", req.IP),
			zap.String("outcome", string(outcome)),
			zap.Error(err),
		)
	}
	if outcome.Delivered() {
		if err := s.tracker.MarkNotified(ctx, visit.Token); err != nil {
			s.log.Warn("mark notified failed", zap.Error(err))
		}
	}
	return visit, nil
}

// HandleScreenInfo relays a device report for a live session.
func (s *Service) HandleScreenInfo(ctx context.Context, token, ip, userAgent string, t *model.Telemetry) (domain.Outcome, error) {
	visitor, ok, err := s.tracker.Lookup(ctx, token)
	if err != nil {
		return "", fmt.Errorf("lookup visitor: %w", err)
	}
	if !ok {
		return domain.OutcomeFailed, domain.ErrUnknownSession
	}
	if t.Empty() {
		return domain.OutcomeFailed, domain.ErrEmptyTelemetry
	}

	if t.HasScreen() {
		scale := 1.0
		if t.Scale != nil {
			scale = *t.Scale
		}
		if err := s.tracker.RecordScreen(ctx, ip, *t.Width, *t.Height, scale); err != nil {
			s.log.Warn("record screen failed", zap.Error(err))
		}
	}

	preamble := visitor.Preamble
	if preamble == "" {
		preamble = renderPreamble(s.now(), s.enricher.Profile(ctx, ip, userAgent))
		if err := s.tracker.SetPreamble(ctx, visitor.Token, preamble); err != nil {
			s.log.Warn("cache preamble failed", zap.Error(err))
		}
	}

	return s.notifier.Send(ctx, model.Message{
		Text:      renderDeviceReport(preamble, t),
		ParseMode: model.ParseModeHTML,
	})
}

// Relay forwards a client-supplied message verbatim as plain text.
func (s *Service) Relay(ctx context.Context, text string) (domain.Outcome, error) {
	return s.notifier.Send(ctx, model.Message{Text: text})
}

// Report forwards a Markdown formatted report.
func (s *Service) Report(ctx context.Context, text string) (domain.Outcome, error) {
	return s.notifier.Send(ctx, model.Message{Text: text, ParseMode: model.ParseModeMarkdown})
}
