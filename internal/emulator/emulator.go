// Package emulator assembles the Data API emulator from a storage backend:
// repositories, use cases and the chi command router.
package emulator

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dataapi/internal/db"
	"github.com/kailas-cloud/dataapi/internal/domain"
	"github.com/kailas-cloud/dataapi/internal/metrics"
	collectionrepo "github.com/kailas-cloud/dataapi/internal/repository/collection"
	documentrepo "github.com/kailas-cloud/dataapi/internal/repository/document"
	"github.com/kailas-cloud/dataapi/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/dataapi/internal/transport/chi"
	collectionuc "github.com/kailas-cloud/dataapi/internal/usecase/collection"
	documentuc "github.com/kailas-cloud/dataapi/internal/usecase/document"
	embeddinguc "github.com/kailas-cloud/dataapi/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/dataapi/internal/usecase/health"
)

// DefaultKeyPrefix is prepended to every storage key.
const DefaultKeyPrefix = "dataapi:"

// Config holds emulator settings.
type Config struct {
	APIPath   string
	Tokens    []string
	KeyPrefix string
	// Namespaces restricts the accepted namespaces. Empty accepts any.
	Namespaces []string
	// MaxCount caps countDocuments. Zero uses the default.
	MaxCount int
	// Embedders maps a vector service provider name to its embedder.
	Embedders map[string]domain.Embedder
	// CacheEmbeddings stores computed vectors in the backing store.
	CacheEmbeddings bool
}

// NewHandler wires the emulator on top of store and returns its HTTP handler.
func NewHandler(store db.Store, cfg Config, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	registry := embeddinguc.NewRegistry(logger)
	checkers := make(map[string]healthuc.EmbeddingChecker)
	for provider, e := range cfg.Embedders {
		if hc, ok := e.(domain.HealthChecker); ok {
			checkers[provider] = hc
		}
		if cfg.CacheEmbeddings {
			e = embcache.New(e, store, prefix, metrics.EmbeddingCacheTotal, logger)
		}
		registry.Register(provider, e)
	}

	collRepo := collectionrepo.New(store, prefix)
	docRepo := documentrepo.New(store, prefix)

	collSvc := collectionuc.New(collRepo, docRepo, cfg.Namespaces)
	docSvc := documentuc.New(docRepo, collSvc, registry).WithMaxCount(cfg.MaxCount)
	healthSvc := healthuc.New(store, checkers)

	server := chiTransport.NewServer(collSvc, docSvc, healthSvc, logger)
	return chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIPath: cfg.APIPath,
		Tokens:  cfg.Tokens,
	})
}
