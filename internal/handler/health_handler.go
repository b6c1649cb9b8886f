package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// healthCheckTimeout はDB疎通確認のタイムアウト。
const healthCheckTimeout = 3 * time.Second

// HealthChecker はDBの疎通確認に必要なインターフェース。*sql.DBが実装する。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// availableRoutes は404レスポンスとAPIインデックスで案内するルート一覧。
var availableRoutes = map[string]string{
	"users":   "/api/users",
	"spaces":  "/api/spaces",
	"content": "/api/content",
	"admin":   "/api/admin",
	"uploads": "/api/uploads",
}

// HealthHandler はプロセスの稼働確認を提供する。
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler はHealthHandlerを生成する。checkerがnilの場合、/healthは常にokを返す。
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Root はAPI名を返す。
// GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Social Intranet API"})
}

// Index はAPIのルート一覧を返す。
// GET /api
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Social Intranet API",
		"endpoints": availableRoutes,
	})
}

// Health はDBへの疎通を確認する。healthcheckサブコマンドが使用する。
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.checker != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := h.checker.PingContext(ctx); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// notFound は未定義ルートに対する404レスポンスを返す。
func notFound(w http.ResponseWriter, r *http.Request) {
	slog.Warn("route not found",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	writeJSON(w, http.StatusNotFound, map[string]any{
		"success":         false,
		"error":           "Route not found",
		"message":         "Cannot " + r.Method + " " + r.URL.Path,
		"availableRoutes": availableRoutes,
	})
}

// methodNotAllowed は定義済みパスへの未対応メソッドに対する405レスポンスを返す。
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
		"success": false,
		"error":   "Method not allowed",
		"message": "Cannot " + r.Method + " " + r.URL.Path,
	})
}
