package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/intranet/internal/model"
)

// AdminServiceInterface は管理者ハンドラーが必要とするサービスインターフェース。
type AdminServiceInterface interface {
	GetFormFields(ctx context.Context, formName string) (*model.FormFields, error)
	UpsertFormFields(ctx context.Context, input model.UpsertFormFieldsInput) (*model.FormFields, error)
	DeleteFormFields(ctx context.Context, id model.ID) error
}

// AdminHandler はフォーム項目定義のHTTPハンドラー。
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// GetFormFields はフォーム項目定義を返す。未登録なら空スキーマを返す。
// GET /api/admin/form-fields?formName
func (h *AdminHandler) GetFormFields(w http.ResponseWriter, r *http.Request) {
	formName := r.URL.Query().Get("formName")
	ff, err := h.service.GetFormFields(r.Context(), formName)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if ff == nil {
		writeJSON(w, http.StatusOK, model.EmptyFormFields{
			FormName:    formName,
			FieldSchema: []byte("{}"),
		})
		return
	}
	writeJSON(w, http.StatusOK, ff)
}

// UpsertFormFields はフォーム項目定義を登録または置き換える。
// POST /api/admin/form-fields
func (h *AdminHandler) UpsertFormFields(w http.ResponseWriter, r *http.Request) {
	var input model.UpsertFormFieldsInput
	if err := decodeJSONBody(w, r, &input); err != nil {
		handleServiceError(w, r, err)
		return
	}

	ff, err := h.service.UpsertFormFields(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ff)
}

// DeleteFormFields はフォーム項目定義を削除する。
// DELETE /api/admin/form-fields/{id}
func (h *AdminHandler) DeleteFormFields(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.DeleteFormFields(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Form field configuration deleted successfully",
	})
}

// SetupAdminRoutes は管理者関連のルーティングを設定したchi.Routerを返す。
func SetupAdminRoutes(service AdminServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewAdminHandler(service)
	r.Route("/api/admin", h.routes)
	return r
}

func (h *AdminHandler) routes(r chi.Router) {
	r.Get("/form-fields", h.GetFormFields)
	r.Post("/form-fields", h.UpsertFormFields)
	r.Delete("/form-fields/{id}", h.DeleteFormFields)
}
