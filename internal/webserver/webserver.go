package webserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	nlogger "github.com/neutron-org/neutron-logger"
	"go.uber.org/zap"

	"github.com/solarlabs-org/bundle-relayer/internal/relay"
)

const ServerContext = "webserver"

const PendingBundlesResource = "/pending_bundles"
const FailedBundlesResource = "/failed_bundles"

// Router exposes the submission history store over HTTP.
func Router(store relay.Storage, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc(PendingBundlesResource, bundlesHandler(store.GetAllPendingBundles, logger))
	router.HandleFunc(FailedBundlesResource, bundlesHandler(store.GetAllFailedBundles, logger))
	return router
}

// Run starts the webserver and shuts it down when ctx is cancelled.
func Run(ctx context.Context, logRegistry *nlogger.Registry, store relay.Storage, port int) error {
	logger := logRegistry.Get(ServerContext)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: Router(store, logger),
	}

	go func() {
		<-ctx.Done()
		logger.Info("Context cancelled, shutting down webserver...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down webserver", zap.Error(err))
		}
	}()

	logger.Info("webserver listening", zap.Int("port", port))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("webserver exited: %w", err)
	}
	return nil
}

func bundlesHandler(get func() ([]*relay.BundleInfo, error), logger *zap.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		bundles, err := get()
		if err != nil {
			logger.Error("failed to read bundles from storage", zap.Error(err))
			http.Error(w, "failed to read bundles from storage", http.StatusInternalServerError)
			return
		}
		if bundles == nil {
			bundles = []*relay.BundleInfo{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(bundles); err != nil {
			logger.Error("failed to encode bundles response", zap.Error(err))
		}
	}
}
