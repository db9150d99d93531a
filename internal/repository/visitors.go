package repository

import (
	"context"
	"time"

	"linkbio/internal/model"
)

type VisitorRepository interface {
	GetVisitor(ctx context.Context, token string) (model.Visitor, bool, error)
	SaveVisitor(ctx context.Context, visitor model.Visitor) error
	// DeleteVisitorsBefore removes visitors whose LastSeen is before cutoff and
	// returns how many were removed.
	DeleteVisitorsBefore(ctx context.Context, cutoff time.Time) (int, error)
	CountVisitors(ctx context.Context) (int, error)
}

type ScreenRepository interface {
	GetScreen(ctx context.Context, ip string) (model.ScreenRecord, bool, error)
	SaveScreen(ctx context.Context, record model.ScreenRecord) error
	DeleteScreensBefore(ctx context.Context, cutoff time.Time) (int, error)
}
