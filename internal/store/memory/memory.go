package memory

import (
	"sync"

	"go.uber.org/zap"

	"linkbio/internal/model"
)

// Store keeps visitor sessions and screen records for the lifetime of the
// process.
type Store struct {
	mu       sync.Mutex
	visitors map[string]model.Visitor
	screens  map[string]model.ScreenRecord
	log      *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{
		visitors: make(map[string]model.Visitor),
		screens:  make(map[string]model.ScreenRecord),
		log:      logger,
	}
}
