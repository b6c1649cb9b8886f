package model

import "time"

// DefaultAttachmentContentType はcontentType省略時の添付先種別。
const DefaultAttachmentContentType = "document"

// Attachment はアップロードされたファイルとコンテンツの紐付けを表す。
type Attachment struct {
	ID          ID        `json:"id"`
	ContentType string    `json:"content_type"`
	ContentID   *ID       `json:"content_id"`
	FileURL     string    `json:"file_url"`
	FileName    string    `json:"file_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// UploadedFile は保存済みファイルと添付レコードの組。
type UploadedFile struct {
	Attachment
	URL      string `json:"url"`
	Filename string `json:"-"`
}
