package store

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"linkbio/internal/repository"
	"linkbio/internal/store/memory"
)

// ProviderSet binds the in-process store to both repository interfaces.
var ProviderSet = wire.NewSet(
	NewStore,
	wire.Bind(new(repository.VisitorRepository), new(*memory.Store)),
	wire.Bind(new(repository.ScreenRepository), new(*memory.Store)),
)

func NewStore(logger *zap.Logger) *memory.Store {
	logger.Info("using in-memory visitor store")
	return memory.New(logger.Named("store"))
}
