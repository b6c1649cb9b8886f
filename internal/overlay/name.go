// Package overlay はオーバーレイ（モーダル）の表示状態を一元管理する。
//
// Coordinatorは「どのオーバーレイが開いているか」を唯一の状態として保持し、
// ナビゲーション履歴（/create, /create/<name>）と同期させる。
package overlay

import (
	"errors"
	"fmt"
)

// ErrUnknownOverlay は定義されていないオーバーレイ名が指定されたことを表す。
var ErrUnknownOverlay = errors.New("overlay: unknown overlay name")

// Name はオーバーレイの識別子。None以外は閉じた列挙。
type Name string

const (
	None         Name = ""
	Menu         Name = "menu"
	StatusUpdate Name = "status_update"
	Document     Name = "document"
	BlogPost     Name = "blog_post"
	Space        Name = "space"
	Search       Name = "search"
)

var names = []Name{Menu, StatusUpdate, Document, BlogPost, Space, Search}

// Names は定義済みのオーバーレイ名をすべて返す。
func Names() []Name {
	out := make([]Name, len(names))
	copy(out, names)
	return out
}

// Valid は定義済みのオーバーレイ名かどうかを返す。Noneはfalse。
func (n Name) Valid() bool {
	for _, known := range names {
		if n == known {
			return true
		}
	}
	return false
}

// ParseName は文字列をオーバーレイ名として解釈する。
func ParseName(s string) (Name, error) {
	n := Name(s)
	if !n.Valid() {
		return None, fmt.Errorf("%w: %q", ErrUnknownOverlay, s)
	}
	return n, nil
}
