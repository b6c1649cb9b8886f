package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/intranet/internal/model"
)

// SpaceServiceInterface はスペースハンドラーが必要とするサービスインターフェース。
type SpaceServiceInterface interface {
	List(ctx context.Context, query string, page model.Page) (*model.SpacePage, error)
	Create(ctx context.Context, input model.CreateSpaceInput) (*model.Space, error)
	Update(ctx context.Context, id model.ID, input model.UpdateSpaceInput) (*model.Space, error)
}

// SpaceHandler はスペース管理のHTTPハンドラー。
type SpaceHandler struct {
	service SpaceServiceInterface
}

// NewSpaceHandler はSpaceHandlerを生成する。
func NewSpaceHandler(service SpaceServiceInterface) *SpaceHandler {
	return &SpaceHandler{service: service}
}

// ListSpaces はスペースを新しい順に検索する。
// GET /api/spaces?query&page&limit
func (h *SpaceHandler) ListSpaces(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), r.URL.Query().Get("query"), pageParams(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateSpace はスペースを作成する。parent_place省略時はトップレベル。
// POST /api/spaces
func (h *SpaceHandler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	var input model.CreateSpaceInput
	if err := decodeJSONBody(w, r, &input); err != nil {
		handleServiceError(w, r, err)
		return
	}

	sp, err := h.service.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sp)
}

// UpdateSpace はスペースの名前・親スペースを更新する。
// PUT /api/spaces/{id}
func (h *SpaceHandler) UpdateSpace(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var input model.UpdateSpaceInput
	if err := decodeJSONBody(w, r, &input); err != nil {
		handleServiceError(w, r, err)
		return
	}

	sp, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

// SetupSpaceRoutes はスペース管理関連のルーティングを設定したchi.Routerを返す。
func SetupSpaceRoutes(service SpaceServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewSpaceHandler(service)
	r.Route("/api/spaces", h.routes)
	return r
}

func (h *SpaceHandler) routes(r chi.Router) {
	r.Get("/", h.ListSpaces)
	r.Post("/", h.CreateSpace)
	r.Put("/{id}", h.UpdateSpace)
}
