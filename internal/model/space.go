package model

import "time"

// Space はコンテンツを投稿できる階層的なスペース（プレイス）を表す。
// 親スペースは名前で参照し、空文字列はトップレベルを意味する。
type Space struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	UserID      ID        `json:"user_id"`
	ParentPlace string    `json:"parent_place"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateSpaceInput はスペース作成リクエストのボディ。
type CreateSpaceInput struct {
	Name        string `json:"name"`
	CreatedBy   ID     `json:"createdBy"`
	ParentPlace string `json:"parent_place,omitempty"`
}

// UpdateSpaceInput はスペース更新リクエストのボディ。
type UpdateSpaceInput struct {
	Name        *string `json:"name,omitempty"`
	ParentPlace *string `json:"parent_place,omitempty"`
}
