package handler

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/intranet/internal/model"
	"github.com/hitoshi/intranet/internal/storage"
	"github.com/hitoshi/intranet/internal/upload"
)

// multipartMemory はParseMultipartFormがメモリに保持する上限。超過分は一時ファイルに書き出される。
const multipartMemory = 8 << 20

// UploadServiceInterface はアップロードハンドラーが必要とするサービスインターフェース。
type UploadServiceInterface interface {
	Upload(ctx context.Context, files []upload.File, target upload.Target) ([]model.UploadedFile, error)
	MaxBytes() int64
}

// FileOpener はローカル保存されたアップロードファイルを開く。
// storage.Localが実装する。S3保存時はnilとし、配信ルートを登録しない。
type FileOpener interface {
	Open(name string) (io.ReadSeekCloser, fs.FileInfo, error)
}

// UploadHandler はファイルアップロードのHTTPハンドラー。
type UploadHandler struct {
	service UploadServiceInterface
	files   FileOpener
}

// NewUploadHandler はUploadHandlerを生成する。filesはnilでもよい。
func NewUploadHandler(service UploadServiceInterface, files FileOpener) *UploadHandler {
	return &UploadHandler{service: service, files: files}
}

// singleUploadResponse は単一アップロードのレスポンス。
type singleUploadResponse struct {
	Success  bool             `json:"success"`
	Data     model.Attachment `json:"data"`
	URL      string           `json:"url"`
	Filename string           `json:"filename"`
}

// multipleUploadResponse は一括アップロードのレスポンス。
type multipleUploadResponse struct {
	Success bool                 `json:"success"`
	Data    []model.UploadedFile `json:"data"`
	Count   int                  `json:"count"`
}

// UploadFile は単一ファイルを受け付ける。
// POST /api/uploads (multipart, field "file")
func (h *UploadHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	files, target, err := h.parseUpload(w, r, "file", false)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if len(files) > 1 {
		files = files[:1]
	}

	uploaded, err := h.service.Upload(r.Context(), files, target)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	first := uploaded[0]
	writeJSON(w, http.StatusCreated, singleUploadResponse{
		Success:  true,
		Data:     first.Attachment,
		URL:      first.URL,
		Filename: first.Filename,
	})
}

// UploadMultiple は最大10ファイルを一括で受け付ける。
// POST /api/uploads/multiple (multipart, field "files")
func (h *UploadHandler) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	files, target, err := h.parseUpload(w, r, "files", true)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	uploaded, err := h.service.Upload(r.Context(), files, target)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, multipleUploadResponse{
		Success: true,
		Data:    uploaded,
		Count:   len(uploaded),
	})
}

// ServeFile はローカル保存されたアップロードファイルを配信する。
// GET /uploads/{filename}, GET /api/uploads/files/{filename}
func (h *UploadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	f, info, err := h.files.Open(chi.URLParam(r, "filename"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeAPIErrorResponse(w, http.StatusNotFound, &model.APIError{
				Code:     model.ErrCodeRouteNotFound,
				Message:  "File not found",
				Category: "not_found",
			})
			return
		}
		handleServiceError(w, r, err)
		return
	}
	defer f.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// parseUpload はmultipartフォームからファイルと添付先を取り出す。
// ボディ全体の上限は1ファイルの上限×ファイル数に余裕分を加えた値とする。
func (h *UploadHandler) parseUpload(w http.ResponseWriter, r *http.Request, field string, plural bool) ([]upload.File, upload.Target, error) {
	maxFiles := int64(1)
	if plural {
		maxFiles = upload.MaxFilesPerRequest + 1
	}
	if maxBytes := h.service.MaxBytes(); maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes*maxFiles+multipartMemory)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, upload.Target{}, model.NewFileTooLargeError("request", h.service.MaxBytes())
		}
		return nil, upload.Target{}, model.NewNoFileUploadedError(plural)
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, upload.Target{}, model.NewNoFileUploadedError(plural)
	}

	target := upload.Target{ContentType: strings.TrimSpace(r.FormValue("contentType"))}
	if raw := strings.TrimSpace(r.FormValue("contentId")); raw != "" {
		id, err := model.ParseID(raw)
		if err != nil {
			return nil, upload.Target{}, err
		}
		target.ContentID = &id
	}

	files := make([]upload.File, len(headers))
	for i, fh := range headers {
		files[i] = fileFromHeader(fh)
	}
	return files, target, nil
}

func fileFromHeader(fh *multipart.FileHeader) upload.File {
	return upload.File{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// SetupUploadRoutes はアップロード関連のルーティングを設定したchi.Routerを返す。
func SetupUploadRoutes(service UploadServiceInterface, files FileOpener) http.Handler {
	r := chi.NewRouter()
	h := NewUploadHandler(service, files)
	r.Route("/api/uploads", h.routes)
	if files != nil {
		r.Get("/uploads/{filename}", h.ServeFile)
	}
	return r
}

func (h *UploadHandler) routes(r chi.Router) {
	r.Post("/", h.UploadFile)
	r.Post("/multiple", h.UploadMultiple)
	if h.files != nil {
		r.Get("/files/{filename}", h.ServeFile)
	}
}
