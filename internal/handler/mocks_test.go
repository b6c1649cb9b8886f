package handler

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/intranet/internal/model"
	"github.com/hitoshi/intranet/internal/upload"
)

// --- モック定義 ---

type mockUserService struct {
	listFn   func(ctx context.Context, query string, page model.Page) (*model.UserPage, error)
	getFn    func(ctx context.Context, id model.ID) (*model.User, error)
	createFn func(ctx context.Context, input model.CreateUserInput) (*model.User, error)
	updateFn func(ctx context.Context, id model.ID, input model.UpdateUserInput) (*model.User, error)
}

func (m *mockUserService) List(ctx context.Context, query string, page model.Page) (*model.UserPage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, query, page)
	}
	return &model.UserPage{Users: []*model.User{}, Page: page.Page, Limit: page.Limit}, nil
}

func (m *mockUserService) Get(ctx context.Context, id model.ID) (*model.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, model.NewUserNotFoundError()
}

func (m *mockUserService) Create(ctx context.Context, input model.CreateUserInput) (*model.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, input)
	}
	return &model.User{ID: 1, Name: input.Name, Email: input.Email, Role: model.DefaultRole}, nil
}

func (m *mockUserService) Update(ctx context.Context, id model.ID, input model.UpdateUserInput) (*model.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, input)
	}
	return nil, model.NewUserNotFoundError()
}

type mockSpaceService struct {
	listFn   func(ctx context.Context, query string, page model.Page) (*model.SpacePage, error)
	createFn func(ctx context.Context, input model.CreateSpaceInput) (*model.Space, error)
	updateFn func(ctx context.Context, id model.ID, input model.UpdateSpaceInput) (*model.Space, error)
}

func (m *mockSpaceService) List(ctx context.Context, query string, page model.Page) (*model.SpacePage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, query, page)
	}
	return &model.SpacePage{Spaces: []*model.Space{}, Page: page.Page, Limit: page.Limit}, nil
}

func (m *mockSpaceService) Create(ctx context.Context, input model.CreateSpaceInput) (*model.Space, error) {
	if m.createFn != nil {
		return m.createFn(ctx, input)
	}
	return &model.Space{ID: 1, Name: input.Name, UserID: input.CreatedBy, ParentPlace: input.ParentPlace}, nil
}

func (m *mockSpaceService) Update(ctx context.Context, id model.ID, input model.UpdateSpaceInput) (*model.Space, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, input)
	}
	return nil, model.NewSpaceNotFoundError()
}

type mockContentService struct {
	createStatusFn   func(ctx context.Context, input model.CreateStatusInput) (*model.StatusUpdate, error)
	createDocumentFn func(ctx context.Context, input model.CreateDocumentInput) (*model.Document, error)
	createBlogPostFn func(ctx context.Context, input model.CreateBlogPostInput) (*model.BlogPost, error)
	listFn           func(ctx context.Context, rawType string, page model.Page) (*model.ContentPage, error)
}

func (m *mockContentService) CreateStatus(ctx context.Context, input model.CreateStatusInput) (*model.StatusUpdate, error) {
	if m.createStatusFn != nil {
		return m.createStatusFn(ctx, input)
	}
	return &model.StatusUpdate{ID: 1, UserID: input.AuthorID, Content: input.Body}, nil
}

func (m *mockContentService) CreateDocument(ctx context.Context, input model.CreateDocumentInput) (*model.Document, error) {
	if m.createDocumentFn != nil {
		return m.createDocumentFn(ctx, input)
	}
	return &model.Document{ID: 1, UserID: input.AuthorID, Title: input.Title}, nil
}

func (m *mockContentService) CreateBlogPost(ctx context.Context, input model.CreateBlogPostInput) (*model.BlogPost, error) {
	if m.createBlogPostFn != nil {
		return m.createBlogPostFn(ctx, input)
	}
	return &model.BlogPost{ID: 1, UserID: input.AuthorID, Title: input.Title}, nil
}

func (m *mockContentService) List(ctx context.Context, rawType string, page model.Page) (*model.ContentPage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, rawType, page)
	}
	if _, err := model.ParseContentType(rawType); err != nil {
		return nil, err
	}
	return &model.ContentPage{Content: []model.StatusEntry{}, Page: page.Page, Limit: page.Limit}, nil
}

type mockUploadService struct {
	maxBytes int64
	uploadFn func(ctx context.Context, files []upload.File, target upload.Target) ([]model.UploadedFile, error)
}

func (m *mockUploadService) Upload(ctx context.Context, files []upload.File, target upload.Target) ([]model.UploadedFile, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, files, target)
	}
	return nil, nil
}

func (m *mockUploadService) MaxBytes() int64 {
	return m.maxBytes
}

type mockAdminService struct {
	getFn    func(ctx context.Context, formName string) (*model.FormFields, error)
	upsertFn func(ctx context.Context, input model.UpsertFormFieldsInput) (*model.FormFields, error)
	deleteFn func(ctx context.Context, id model.ID) error
}

func (m *mockAdminService) GetFormFields(ctx context.Context, formName string) (*model.FormFields, error) {
	if m.getFn != nil {
		return m.getFn(ctx, formName)
	}
	return nil, nil
}

func (m *mockAdminService) UpsertFormFields(ctx context.Context, input model.UpsertFormFieldsInput) (*model.FormFields, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, input)
	}
	return &model.FormFields{ID: 1, FormName: input.FormName, FieldSchema: input.FieldSchemaJSON}, nil
}

func (m *mockAdminService) DeleteFormFields(ctx context.Context, id model.ID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockFileOpener struct {
	openFn func(name string) (io.ReadSeekCloser, fs.FileInfo, error)
}

func (m *mockFileOpener) Open(name string) (io.ReadSeekCloser, fs.FileInfo, error) {
	return m.openFn(name)
}

// --- ヘルパー ---

// decodeBody はレスポンスボディをJSONとしてmapに読み込む。
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v\nraw: %s", err, w.Body.String())
	}
	return body
}

// assertErrorBody はエラーレスポンスが {success:false, error:<want>} であることを検証する。
func assertErrorBody(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantError string) {
	t.Helper()
	if w.Code != wantStatus {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, wantStatus, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
	if wantError != "" && body["error"] != wantError {
		t.Errorf("error = %v, want %q", body["error"], wantError)
	}
}
