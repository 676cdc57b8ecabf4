package providers

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"

	"github.com/listenupapp/listenup-narration/internal/config"
	"github.com/listenupapp/listenup-narration/internal/logger"
	"github.com/listenupapp/listenup-narration/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the alignment database.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Store.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := cfg.Store.DatabasePath()
	db, err := sqlite.Open(dbPath, log.WithComponent("store").Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}
