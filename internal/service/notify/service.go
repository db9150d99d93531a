package notify

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/domain"
	"linkbio/internal/metrics"
	"linkbio/internal/model"
	"linkbio/internal/telemetry"
)

type Service struct {
	sender     Sender
	probe      Prober
	fallback   *Fallback
	dedup      *dedupCache
	configured bool
	now        func() time.Time
	log        *zap.Logger
}

func NewService(cfg *config.Config, sender Sender, probe Prober, fallback *Fallback, logger *zap.Logger) *Service {
	return &Service{
		sender:     sender,
		probe:      probe,
		fallback:   fallback,
		dedup:      newDedupCache(cfg.DedupTTL),
		configured: cfg.TelegramConfigured(),
		now:        time.Now,
		log:        logger,
	}
}

// Send delivers msg at most once per dedup window. Messages that cannot be
// delivered go to the fallback log and the returned error says why.
func (s *Service) Send(ctx context.Context, msg model.Message) (domain.Outcome, error) {
	if strings.TrimSpace(msg.Text) == "" {
		return domain.OutcomeFailed, domain.ErrEmptyMessage
	}

	ctx, span := telemetry.Tracer("notify").Start(ctx, "notify.send")
	defer span.End()
	start := s.now()

	outcome, err := s.send(ctx, msg)
	span.SetAttributes(attribute.String("notify.outcome", string(outcome)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(outcome))
	}
	metrics.RecordNotification(string(outcome), s.now().Sub(start))
	return outcome, err
}

func (s *Service) send(ctx context.Context, msg model.Message) (domain.Outcome, error) {
	key := messageKey(msg)
	if !s.dedup.claim(key, s.now()) {
		s.log.Debug("duplicate message suppressed")
		return domain.OutcomeDuplicate, nil
	}

	if !s.configured {
		s.dedup.release(key)
		s.log.Warn("telegram credentials missing")
		s.fallback.Write("not_configured", msg)
		return domain.OutcomeFailed, domain.ErrNotConfigured
	}

	if !s.probe.Online(ctx) {
		s.dedup.release(key)
		s.fallback.Write("offline", msg)
		return domain.OutcomeOffline, domain.ErrOffline
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.dedup.release(key)
		s.log.Error("notification send failed", zap.Error(err))
		s.fallback.Write("send_failed", msg)
		return domain.OutcomeFailed, err
	}
	return domain.OutcomeSent, nil
}
