// Package storage はアップロードファイルの保存先を提供する。
// ローカルディスクとS3互換オブジェクトストレージの2種類の実装を持つ。
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound は指定名のファイルが存在しないことを表す。
var ErrNotFound = errors.New("storage: file not found")

// ErrInvalidName は保存名として不正な文字列が指定されたことを表す。
var ErrInvalidName = errors.New("storage: invalid file name")

// Store はアップロードファイルの保存先のインターフェース。
type Store interface {
	// Put はファイルをnameで保存し、クライアントが参照するURLを返す。
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	// Delete はnameのファイルを削除する。存在しない場合はnilを返す。
	Delete(ctx context.Context, name string) error
}

var (
	storedNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	extPattern        = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)
)

// NewFileName は元のファイル名の拡張子を保ったまま、衝突しない保存名を生成する。
// 拡張子が英数字でない場合は拡張子なしとする。
func NewFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return uuid.NewString() + ext
}

// ValidName は保存名としてパス区切りや親ディレクトリ参照を含まないかを返す。
func ValidName(name string) bool {
	return storedNamePattern.MatchString(name) && !strings.Contains(name, "..")
}
