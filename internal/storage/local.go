package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalURLPrefix はローカル保存ファイルの公開パス。
const LocalURLPrefix = "/uploads/"

// Local はローカルディスクにファイルを保存するStore。
type Local struct {
	dir string
}

// NewLocal は保存先ディレクトリを作成してLocalを生成する。
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir は保存先ディレクトリを返す。
func (l *Local) Dir() string {
	return l.dir
}

// Put はファイルを保存先ディレクトリに書き込み、/uploads/<name> を返す。
// 書き込みに失敗した場合は途中まで書いたファイルを削除する。
func (l *Local) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if !ValidName(name) {
		return "", ErrInvalidName
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(l.dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return LocalURLPrefix + name, nil
}

// Delete は保存済みファイルを削除する。
func (l *Local) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(l.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// Open は保存済みファイルを開く。ディレクトリや存在しない名前にはErrNotFoundを返す。
func (l *Local) Open(name string) (io.ReadSeekCloser, fs.FileInfo, error) {
	if !ValidName(name) {
		return nil, nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(l.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, ErrNotFound
	}
	return f, info, nil
}

var _ Store = (*Local)(nil)
