// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// ハンドラーでHTTPステータスに変換され、{success:false, error:<Message>} として返される。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, not_found, conflict, upload, transport, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeInvalidID          = "INVALID_ID"
	ErrCodeInvalidContentType = "INVALID_CONTENT_TYPE"
	ErrCodeUnknownReference   = "UNKNOWN_REFERENCE"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeSpaceNotFound      = "SPACE_NOT_FOUND"
	ErrCodeFormFieldsNotFound = "FORM_FIELDS_NOT_FOUND"
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeNoFileUploaded     = "NO_FILE_UPLOADED"
	ErrCodeTooManyFiles       = "TOO_MANY_FILES"
	ErrCodeFileTooLarge       = "FILE_TOO_LARGE"
	ErrCodeRouteNotFound      = "ROUTE_NOT_FOUND"
	ErrCodeBackendUnreachable = "BACKEND_UNREACHABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewValidationError は必須項目欠落などの入力検証エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
	}
}

// NewInvalidRequestError はリクエストボディの解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "Request body must be valid JSON",
		Category: "validation",
	}
}

// NewInvalidIDError は数値として解釈できないIDのエラーを生成する。
func NewInvalidIDError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidID,
		Message:  fmt.Sprintf("Invalid id: %s", raw),
		Category: "validation",
	}
}

// NewInvalidContentTypeError はコンテンツ一覧のtype指定が不正な場合のエラーを生成する。
func NewInvalidContentTypeError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidContentType,
		Message:  "Invalid type. Use status, document, or blog",
		Category: "validation",
	}
}

// NewUnknownReferenceError は存在しないユーザーを参照した場合のエラーを生成する。
// fieldにはリクエスト上の項目名（authorId, createdBy）を渡す。
func NewUnknownReferenceError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeUnknownReference,
		Message:  fmt.Sprintf("%s does not refer to an existing user", field),
		Category: "validation",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found",
		Category: "not_found",
	}
}

// NewSpaceNotFoundError はスペースが見つからない場合のエラーを生成する。
func NewSpaceNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeSpaceNotFound,
		Message:  "Space not found",
		Category: "not_found",
	}
}

// NewFormFieldsNotFoundError はフォーム項目定義が見つからない場合のエラーを生成する。
func NewFormFieldsNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeFormFieldsNotFound,
		Message:  "Form field configuration not found",
		Category: "not_found",
	}
}

// NewDuplicateEmailError はメールアドレス重複（一意制約違反）のエラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "User with this email already exists",
		Category: "conflict",
	}
}

// NewNoFileUploadedError はアップロードファイルが添付されていない場合のエラーを生成する。
func NewNoFileUploadedError(plural bool) *APIError {
	msg := "No file uploaded"
	if plural {
		msg = "No files uploaded"
	}
	return &APIError{
		Code:     ErrCodeNoFileUploaded,
		Message:  msg,
		Category: "upload",
	}
}

// NewTooManyFilesError は一括アップロードの上限超過エラーを生成する。
func NewTooManyFilesError(max int) *APIError {
	return &APIError{
		Code:     ErrCodeTooManyFiles,
		Message:  fmt.Sprintf("Too many files: at most %d files can be uploaded at once", max),
		Category: "upload",
	}
}

// NewFileTooLargeError はファイルサイズ上限超過エラーを生成する。
func NewFileTooLargeError(filename string, maxBytes int64) *APIError {
	return &APIError{
		Code:     ErrCodeFileTooLarge,
		Message:  fmt.Sprintf("File %q exceeds the maximum size of %d bytes", filename, maxBytes),
		Category: "upload",
	}
}

// NewBackendUnreachableError はプライマリバックエンドへの到達失敗を表すエラーを生成する。
func NewBackendUnreachableError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeBackendUnreachable,
		Message:  fmt.Sprintf("Backend is unreachable: %s", reason),
		Category: "transport",
	}
}

// NewInternalError はサーバー内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Internal Server Error",
		Category: "system",
	}
}
