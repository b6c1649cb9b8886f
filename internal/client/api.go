// Package client はコンテンツ投稿とユーザー・スペース検索のクライアントを提供する。
//
// REST APIを呼び出すClient、サービス層を直接呼び出すDirect、
// API到達不能時にDirectへ1回だけ切り替えるFallbackの3実装があり、
// SUBMIT_STRATEGYでいずれか1つを選択する。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hitoshi/intranet/internal/middleware"
	"github.com/hitoshi/intranet/internal/model"
)

// maxResponseBytes はレスポンスボディの読み取り上限。
const maxResponseBytes = 1 << 20

// ResponseError はAPIが2xx以外を返したことを表す。
type ResponseError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error はerrorインターフェースを実装する。
func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// gateway はバックエンドの手前のプロキシがエラーを返したかどうかを返す。
func (e *ResponseError) gateway() bool {
	switch e.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsUnreachable はerrがバックエンドに到達できなかったことを表すかどうかを返す。
// 接続失敗・タイムアウトと502/503/504が該当する。検証エラーなどは含まない。
func IsUnreachable(err error) bool {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeBackendUnreachable {
		return true
	}
	var respErr *ResponseError
	return errors.As(err, &respErr) && respErr.gateway()
}

// Client はREST APIのクライアント。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	userID     model.ID
}

var _ Backend = (*Client)(nil)

// NewClient はClientの新しいインスタンスを生成する。
// userIDが0以外の場合、X-User-IDヘッダーで操作ユーザーを伝える。
func NewClient(baseURL string, httpClient *http.Client, userID model.ID, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
	}
}

// CreateStatus はステータス更新を投稿する。
func (c *Client) CreateStatus(ctx context.Context, input model.CreateStatusInput) (*model.StatusUpdate, error) {
	var out model.StatusUpdate
	if err := c.do(ctx, http.MethodPost, "/api/content/status", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDocument は文書を公開する。
func (c *Client) CreateDocument(ctx context.Context, input model.CreateDocumentInput) (*model.Document, error) {
	var out model.Document
	if err := c.do(ctx, http.MethodPost, "/api/content/document", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBlogPost はブログ記事を公開する。
func (c *Client) CreateBlogPost(ctx context.Context, input model.CreateBlogPostInput) (*model.BlogPost, error) {
	var out model.BlogPost
	if err := c.do(ctx, http.MethodPost, "/api/content/blog", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSpace はスペースを作成する。
func (c *Client) CreateSpace(ctx context.Context, input model.CreateSpaceInput) (*model.Space, error) {
	var out model.Space
	if err := c.do(ctx, http.MethodPost, "/api/spaces", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser はユーザーを1件取得する。
func (c *Client) GetUser(ctx context.Context, id model.ID) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUsers は名前・メール・部署でユーザーを検索する。
func (c *Client) ListUsers(ctx context.Context, query string, page model.Page) (*model.UserPage, error) {
	var out model.UserPage
	if err := c.do(ctx, http.MethodGet, "/api/users?"+searchQuery(query, page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSpaces は名前でスペースを検索する。
func (c *Client) ListSpaces(ctx context.Context, query string, page model.Page) (*model.SpacePage, error) {
	var out model.SpacePage
	if err := c.do(ctx, http.MethodGet, "/api/spaces?"+searchQuery(query, page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func searchQuery(query string, page model.Page) string {
	q := url.Values{}
	if query != "" {
		q.Set("query", query)
	}
	if page.Page > 0 {
		q.Set("page", strconv.Itoa(page.Page))
	}
	if page.Limit > 0 {
		q.Set("limit", strconv.Itoa(page.Limit))
	}
	return q.Encode()
}

// do はJSONリクエストを送信し、2xxのレスポンスをoutにデコードする。
// 接続に失敗した場合はBACKEND_UNREACHABLEのAPIErrorを、
// 2xx以外の場合はResponseErrorを返す。
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("リクエストのエンコードに失敗しました: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !c.userID.IsZero() {
		req.Header.Set(middleware.ActorHeader, c.userID.String())
	}

	c.logger.Debug("API request", slog.String("method", method), slog.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("APIの呼び出しに失敗しました",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", model.NewBackendUnreachableError(method+" "+path), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: %w", model.NewBackendUnreachableError("reading response"), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respErr := &ResponseError{StatusCode: resp.StatusCode}
		var eb middleware.ErrorResponseBody
		if json.Unmarshal(raw, &eb) == nil {
			respErr.Code = eb.Code
			respErr.Message = eb.Error
		}
		c.logger.Debug("API error response",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("code", respErr.Code),
		)
		return respErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}
	return nil
}
