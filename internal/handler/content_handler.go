package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/intranet/internal/model"
)

// ContentServiceInterface はコンテンツハンドラーが必要とするサービスインターフェース。
type ContentServiceInterface interface {
	CreateStatus(ctx context.Context, input model.CreateStatusInput) (*model.StatusUpdate, error)
	CreateDocument(ctx context.Context, input model.CreateDocumentInput) (*model.Document, error)
	CreateBlogPost(ctx context.Context, input model.CreateBlogPostInput) (*model.BlogPost, error)
	List(ctx context.Context, rawType string, page model.Page) (*model.ContentPage, error)
}

// ContentHandler はステータス更新・文書・ブログ記事のHTTPハンドラー。
type ContentHandler struct {
	service ContentServiceInterface
}

// NewContentHandler はContentHandlerを生成する。
func NewContentHandler(service ContentServiceInterface) *ContentHandler {
	return &ContentHandler{service: service}
}

// CreateStatus はステータス更新を投稿する。
// POST /api/content/status
func (h *ContentHandler) CreateStatus(w http.ResponseWriter, r *http.Request) {
	var input model.CreateStatusInput
	if err := decodeJSONBody(w, r, &input); err != nil {
		handleServiceError(w, r, err)
		return
	}

	st, err := h.service.CreateStatus(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// CreateDocument は文書を公開する。
// POST /api/content/document
func (h *ContentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var input model.CreateDocumentInput
	if err := decodeJSONBody(w, r, &input); err != nil {
		handleServiceError(w, r, err)
		return
	}

	doc, err := h.service.CreateDocument(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// CreateBlogPost はブログ記事を公開する。
// POST /api/content/blog
func (h *ContentHandler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	var input model.CreateBlogPostInput
	if err := decodeJSONBody(w, r, &input); err != nil {
		handleServiceError(w, r, err)
		return
	}

	post, err := h.service.CreateBlogPost(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// ListContent は種別ごとのフィードを返す。
// GET /api/content?type=status|document|blog&page&limit
func (h *ContentHandler) ListContent(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), r.URL.Query().Get("type"), pageParams(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SetupContentRoutes はコンテンツ関連のルーティングを設定したchi.Routerを返す。
func SetupContentRoutes(service ContentServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewContentHandler(service)
	r.Route("/api/content", h.routes)
	return r
}

func (h *ContentHandler) routes(r chi.Router) {
	r.Get("/", h.ListContent)
	r.Post("/status", h.CreateStatus)
	r.Post("/document", h.CreateDocument)
	r.Post("/blog", h.CreateBlogPost)
}
