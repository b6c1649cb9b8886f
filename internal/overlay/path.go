package overlay

import (
	"fmt"
	"strings"
)

const (
	// RootPath はアプリケーションのルート。オーバーレイが開いていない状態に対応する。
	RootPath = "/"
	// CreatePath は作成メニューのパス。個別フォームは CreatePath + "/" + name。
	CreatePath = "/create"
)

// PathFor はオーバーレイ名を履歴のパスに変換する。
// Menuは/create、その他は/create/<name>、NoneはRootPathになる。
func PathFor(n Name) (string, error) {
	switch {
	case n == None:
		return RootPath, nil
	case n == Menu:
		return CreatePath, nil
	case n.Valid():
		return CreatePath + "/" + string(n), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOverlay, string(n))
}

// ParsePath は履歴のパスからオーバーレイ名を導出する。
// /create以外のパスはNoneになる。/create/<unknown>はNoneとErrUnknownOverlayを返す。
// クエリ文字列・フラグメント・末尾のスラッシュは無視する。
func ParsePath(path string) (Name, error) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}

	if path == CreatePath {
		return Menu, nil
	}
	rest, ok := strings.CutPrefix(path, CreatePath+"/")
	if !ok {
		return None, nil
	}
	n, err := ParseName(rest)
	if err != nil {
		return None, err
	}
	return n, nil
}
