package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/intranet/internal/metrics"
	"github.com/hitoshi/intranet/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger             *slog.Logger
	CORSAllowedOrigin  string
	RateLimiter        *middleware.RateLimiter
	Metrics            metrics.MetricsCollector
	MetricsGatherer    prometheus.Gatherer
	ExposeErrorDetails bool

	HealthChecker HealthChecker

	UserService    UserServiceInterface
	SpaceService   SpaceServiceInterface
	ContentService ContentServiceInterface
	UploadService  UploadServiceInterface
	AdminService   AdminServiceInterface

	// UploadFiles はローカル保存時のみ設定する。nilなら配信ルートを登録しない。
	UploadFiles FileOpener
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Actor → Logging → Metrics → SecurityHeaders → CORS → RateLimit(General) → RateLimit(Write)
//
// ヘルスチェックとメトリクスはレート制限の対象外。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.Nop{}
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewActorMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewMetricsMiddleware(collector))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(withErrorDetails(deps.ExposeErrorDetails))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	healthHandler := NewHealthHandler(deps.HealthChecker)
	userHandler := NewUserHandler(deps.UserService)
	spaceHandler := NewSpaceHandler(deps.SpaceService)
	contentHandler := NewContentHandler(deps.ContentService)
	uploadHandler := NewUploadHandler(deps.UploadService, deps.UploadFiles)
	adminHandler := NewAdminHandler(deps.AdminService)

	// --- レート制限なしのルート ---
	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)
	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- レート制限付きのルート ---
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
			r.Use(deps.RateLimiter.WriteMiddleware())
		}

		r.Get("/api", healthHandler.Index)
		r.Route("/api/users", userHandler.routes)
		r.Route("/api/spaces", spaceHandler.routes)
		r.Route("/api/content", contentHandler.routes)
		r.Route("/api/uploads", uploadHandler.routes)
		r.Route("/api/admin", adminHandler.routes)

		if deps.UploadFiles != nil {
			r.Get("/uploads/{filename}", uploadHandler.ServeFile)
		}
	})

	return r
}
