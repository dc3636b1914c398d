package ordercoordinator

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/CameronXie/cake-shop-explorer/cakeshop/catalog"
)

// ErrNotInitialized is returned by Instance before Init has run.
var ErrNotInitialized = errors.New("order coordinator is not initialized")

var (
	instanceOnce sync.Once
	instanceMu   sync.RWMutex
	instance     Coordinator
)

// Init builds the process-wide Coordinator. Only the first call constructs it;
// every call, concurrent or later, returns that same instance and ignores its arguments.
func Init(cat catalog.Catalog, logger *slog.Logger, options ...Option) Coordinator {
	instanceOnce.Do(func() {
		instanceMu.Lock()
		defer instanceMu.Unlock()
		instance = NewCoordinator(cat, logger, options...)
	})

	instanceMu.RLock()
	defer instanceMu.RUnlock()
	return instance
}

// Instance returns the Coordinator built by Init.
func Instance() (Coordinator, error) {
	instanceMu.RLock()
	defer instanceMu.RUnlock()

	if instance == nil {
		return nil, ErrNotInitialized
	}

	return instance, nil
}
