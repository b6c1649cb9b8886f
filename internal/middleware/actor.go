// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"net/http"

	"github.com/hitoshi/intranet/internal/model"
)

// ActorHeader は操作ユーザーのIDを伝えるリクエストヘッダー。
// 認証は外部で行われるため、値はログとレート制限のキーにのみ使用する。
const ActorHeader = "X-User-ID"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// NewActorMiddleware はX-User-IDヘッダーを読み取り、操作ユーザーIDをコンテキストに注入する。
// ヘッダーが無い、または数値でない場合は何もせず次に渡す（401にはしない）。
func NewActorMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(ActorHeader)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := model.ParseID(raw)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), id)))
		})
	}
}

// UserIDFromContext はリクエストコンテキストから操作ユーザーIDを取得する。
func UserIDFromContext(ctx context.Context) (model.ID, bool) {
	id, ok := ctx.Value(userIDContextKey).(model.ID)
	if !ok || id.IsZero() {
		return 0, false
	}
	return id, true
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやクライアント側のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID model.ID) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
