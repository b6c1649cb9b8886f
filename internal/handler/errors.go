// Package handler はREST APIのHTTPハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/intranet/internal/middleware"
	"github.com/hitoshi/intranet/internal/model"
)

// maxJSONBodyBytes はJSONリクエストボディの上限。
const maxJSONBodyBytes = 1 << 20

type detailsContextKey struct{}

// withErrorDetails は500レスポンスに内部エラーの詳細を含めるかどうかをコンテキストに設定する。
// 本番環境以外でのみ有効にする。
func withErrorDetails(expose bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), detailsContextKey{}, expose)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func errorDetailsEnabled(ctx context.Context) bool {
	expose, _ := ctx.Value(detailsContextKey{}).(bool)
	return expose
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	body := middleware.ErrorResponseBody{
		Error: model.NewInternalError().Message,
		Code:  model.ErrCodeInternal,
	}
	if errorDetailsEnabled(r.Context()) {
		body.Details = err.Error()
	}
	middleware.WriteErrorBody(w, http.StatusInternalServerError, body)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeValidation,
		model.ErrCodeInvalidRequest,
		model.ErrCodeInvalidID,
		model.ErrCodeInvalidContentType,
		model.ErrCodeUnknownReference,
		model.ErrCodeNoFileUploaded,
		model.ErrCodeTooManyFiles:
		return http.StatusBadRequest
	case model.ErrCodeUserNotFound,
		model.ErrCodeSpaceNotFound,
		model.ErrCodeFormFieldsNotFound,
		model.ErrCodeRouteNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateEmail:
		return http.StatusConflict
	case model.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case model.ErrCodeBackendUnreachable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON は任意の値をJSONで書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// decodeJSONBody はリクエストボディをJSONとしてvに読み込む。
// 解析に失敗した場合はINVALID_REQUESTエラーを返す。
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewInvalidRequestError()
	}
	return nil
}

// idParam はURLパスの{id}を正のIDとして解釈する。
func idParam(r *http.Request) (model.ID, error) {
	return model.ParseID(chi.URLParam(r, "id"))
}

// pageParams はpage・limitクエリパラメータを解釈する。
// 数値でない値は省略と同じ扱いにする。
func pageParams(r *http.Request) model.Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return model.NormalizePage(page, limit)
}
