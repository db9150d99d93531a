package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/logging"
	"linkbio/internal/model"
)

// Fallback appends undelivered messages to a local log.
type Fallback struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
	log *zap.Logger
}

// NewFallback opens the rotating fallback file. The returned cleanup closes
// it.
func NewFallback(cfg *config.Config, logger *zap.Logger) (*Fallback, func(), error) {
	w, err := logging.NewRotatingWriter(cfg.FallbackLogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open fallback log: %w", err)
	}
	f := NewFallbackWriter(w, logger)
	return f, func() { _ = w.Close() }, nil
}

func NewFallbackWriter(w io.Writer, logger *zap.Logger) *Fallback {
	return &Fallback{w: w, now: time.Now, log: logger}
}

func (f *Fallback) Write(reason string, msg model.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := fmt.Fprintf(f.w, "[%s] reason=%s\n%s\n---\n",
		f.now().Format("2006-01-02 15:04:05"), reason, msg.Text)
	if err != nil {
		f.log.Error("fallback log write failed", zap.String("reason", reason), zap.Error(err))
		return
	}
	f.log.Warn("message written to fallback log", zap.String("reason", reason))
}
