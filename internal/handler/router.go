package handler

import (
	"io/fs"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stevenscomputer/site/internal/metrics"
	"github.com/stevenscomputer/site/internal/service"
)

// RouterConfig holds everything the HTTP surface is built from.
type RouterConfig struct {
	DB             Pinger
	ContactService service.ContactService
	Site           fs.FS
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	RateLimiter    *RateLimiter // optional; guards POST /api/contact
	CORSOrigin     string
	DebugEndpoints bool
}

// NewRouter wires every route and the shared middleware.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	static, err := NewStaticHandler(cfg.Site)
	if err != nil {
		return nil, err
	}

	h := New(cfg.DB, cfg.CORSOrigin)
	contactHandler := NewContactHandler(cfg.ContactService, cfg.Metrics)

	var submit http.Handler = http.HandlerFunc(contactHandler.Submit)
	if cfg.RateLimiter != nil {
		submit = cfg.RateLimiter.Middleware(submit)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.Handle("POST /api/contact", submit)
	// Unauthenticated; development only.
	if cfg.DebugEndpoints {
		mux.HandleFunc("GET /api/contacts", contactHandler.List)
	}
	if cfg.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	mux.Handle("/", static)

	return RequestLogger(cfg.Metrics)(SecurityHeaders(h.CORS(mux))), nil
}
