package memory

import (
	"context"
	"time"

	"go.uber.org/zap"

	"linkbio/internal/model"
)

func (s *Store) GetVisitor(_ context.Context, token string) (model.Visitor, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[token]
	return v, ok, nil
}

func (s *Store) SaveVisitor(_ context.Context, visitor model.Visitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visitors[visitor.Token] = visitor
	return nil
}

func (s *Store) DeleteVisitorsBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, v := range s.visitors {
		if v.LastSeen.Before(cutoff) {
			delete(s.visitors, token)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug("expired visitors removed", zap.Int("count", removed))
	}
	return removed, nil
}

func (s *Store) CountVisitors(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors), nil
}

func (s *Store) GetScreen(_ context.Context, ip string) (model.ScreenRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.screens[ip]
	return r, ok, nil
}

func (s *Store) SaveScreen(_ context.Context, record model.ScreenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ReportedAt.IsZero() {
		record.ReportedAt = time.Now().UTC()
	}
	s.screens[record.IP] = record
	return nil
}

func (s *Store) DeleteScreensBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for ip, r := range s.screens {
		if r.ReportedAt.Before(cutoff) {
			delete(s.screens, ip)
			removed++
		}
	}
	return removed, nil
}
