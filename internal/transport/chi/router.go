package chi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dataapi/internal/domain"
	logpkg "github.com/kailas-cloud/dataapi/internal/logger"
	"github.com/kailas-cloud/dataapi/internal/metrics"
)

// DefaultAPIPath is the route prefix of the command endpoints.
const DefaultAPIPath = "/api/json/v1"

// RouterConfig holds router settings.
type RouterConfig struct {
	APIPath string
	Tokens  []string
}

// NewRouter mounts the command endpoints, /health and /metrics with the
// recovery, request logging, auth and metrics middleware.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	apiPath := "/" + strings.Trim(cfg.APIPath, "/")
	if apiPath == "/" {
		apiPath = DefaultAPIPath
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(TokenAuthMiddleware(cfg.Tokens))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route(apiPath, func(r chi.Router) {
		r.Post("/{namespace}", s.Command)
		r.Post("/{namespace}/{collection}", s.Command)
	})
	return r
}

// jsonRecoverer is a recovery middleware that returns a Data API error body
// instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(reply{
						Errors: []domain.ErrorDescriptor{{Message: "internal error", ErrorCode: domain.CodeServerError}},
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
