package monitoring

import (
	"net/http"

	nlogger "github.com/neutron-org/neutron-logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/solarlabs-org/bundle-relayer/internal/metrics"
	"github.com/solarlabs-org/bundle-relayer/internal/relay"
)

const MonitoringLoggerContext = "monitoring"

// PromWrapper refreshes storage-derived gauges on every scrape before
// delegating to the prometheus handler.
type PromWrapper struct {
	promHandler http.Handler
	storage     relay.Storage
	logger      *zap.Logger
}

func NewPromWrapper(logRegistry *nlogger.Registry, storage relay.Storage) PromWrapper {
	return PromWrapper{
		promHandler: promhttp.Handler(),
		storage:     storage,
		logger:      logRegistry.Get(MonitoringLoggerContext),
	}
}

func (p PromWrapper) FillPendingBundlesMetric() {
	bundles, err := p.storage.GetAllPendingBundles()
	if err != nil {
		p.logger.Error("failed to get pending bundles from storage", zap.Error(err))
		return
	}
	metrics.SetPendingBundlesQueueSize(len(bundles))
}

func (p PromWrapper) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	p.FillPendingBundlesMetric()
	p.promHandler.ServeHTTP(res, req)
}
