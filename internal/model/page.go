package model

import "math"

const (
	// DefaultPageLimit はlimit省略時の取得件数。
	DefaultPageLimit = 20
	// MaxPageLimit はlimitの上限。
	MaxPageLimit = 100
	// MaxPage はpageの上限。OFFSETがint32に収まる範囲に抑える。
	MaxPage = math.MaxInt32 / MaxPageLimit
)

// Page は一覧取得のページ指定を表す。Pageは1始まり。
type Page struct {
	Page  int
	Limit int
}

// Offset はSQLのOFFSET値を返す。
// 範囲外の値はNormalizePageと同じく丸めてから計算する。
func (p Page) Offset() int {
	n := NormalizePage(p.Page, p.Limit)
	return (n.Page - 1) * n.Limit
}

// NormalizePage はページ指定を有効な範囲に丸める。
func NormalizePage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Page: page, Limit: limit}
}

// UserPage はユーザー一覧APIのレスポンス。Totalは検索条件に一致する総件数。
type UserPage struct {
	Users []*User `json:"users"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
	Total int     `json:"total"`
}

// SpacePage はスペース一覧APIのレスポンス。
type SpacePage struct {
	Spaces []*Space `json:"spaces"`
	Page   int      `json:"page"`
	Limit  int      `json:"limit"`
	Total  int      `json:"total"`
}
