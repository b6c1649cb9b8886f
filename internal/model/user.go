package model

import "time"

// Role はユーザーの権限区分を表す。
type Role string

const (
	RoleInternal  Role = "internal"
	RoleExternal  Role = "external"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleGuest     Role = "guest"
)

// DefaultRole は作成時にroleが省略された場合の値。
const DefaultRole = RoleExternal

// Valid は定義済みのロールかどうかを返す。
func (r Role) Valid() bool {
	switch r {
	case RoleInternal, RoleExternal, RoleAdmin, RoleModerator, RoleGuest:
		return true
	}
	return false
}

// CanPostStatus はステータス更新を投稿できるロールかどうかを返す。
// ステータス更新は社内ユーザー（internal, admin）に限定される。
func (r Role) CanPostStatus() bool {
	return r == RoleInternal || r == RoleAdmin
}

// User はイントラネットの利用者を表す。
type User struct {
	ID              ID        `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Department      string    `json:"department"`
	ProfileImageURL string    `json:"profile_image_url"`
	Role            Role      `json:"role"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateUserInput はユーザー作成リクエストのボディ。
type CreateUserInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	Role       Role   `json:"role,omitempty"`
}

// UpdateUserInput はユーザー更新リクエストのボディ。
// nilフィールドは変更しない部分更新を行う。
type UpdateUserInput struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Department *string `json:"department,omitempty"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	Role       *Role   `json:"role,omitempty"`
}
