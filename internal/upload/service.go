// Package upload はファイルアップロードのドメインロジックを提供する。
// ファイル本体はstorage.Storeに保存し、添付レコードをattachmentsテーブルに記録する。
package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hitoshi/intranet/internal/metrics"
	"github.com/hitoshi/intranet/internal/model"
	"github.com/hitoshi/intranet/internal/repository"
	"github.com/hitoshi/intranet/internal/storage"
)

// MaxFilesPerRequest は一括アップロードで受け付けるファイル数の上限。
const MaxFilesPerRequest = 10

// File はアップロードされた1ファイル分の入力。
type File struct {
	Name        string // クライアントが送信した元のファイル名
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Target はファイルの添付先。
type Target struct {
	ContentType string
	ContentID   *model.ID
}

// Service はファイルアップロードのサービス層。
type Service struct {
	store    storage.Store
	repo     repository.AttachmentRepository
	metrics  metrics.MetricsCollector
	maxBytes int64
}

// NewService はServiceの新しいインスタンスを生成する。maxBytesは1ファイルあたりの上限。
func NewService(
	store storage.Store,
	repo repository.AttachmentRepository,
	collector metrics.MetricsCollector,
	maxBytes int64,
) *Service {
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{
		store:    store,
		repo:     repo,
		metrics:  collector,
		maxBytes: maxBytes,
	}
}

// MaxBytes は1ファイルあたりのサイズ上限を返す。
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// Upload はファイルを保存し、添付レコードを作成する。
// 件数とサイズの検証はすべてのファイルを保存する前に行う。
func (s *Service) Upload(ctx context.Context, files []File, target Target) ([]model.UploadedFile, error) {
	if len(files) == 0 {
		return nil, model.NewNoFileUploadedError(false)
	}
	if len(files) > MaxFilesPerRequest {
		return nil, model.NewTooManyFilesError(MaxFilesPerRequest)
	}
	for _, f := range files {
		if s.maxBytes > 0 && f.Size > s.maxBytes {
			return nil, model.NewFileTooLargeError(f.Name, s.maxBytes)
		}
	}

	target.ContentType = strings.TrimSpace(target.ContentType)
	if target.ContentType == "" {
		target.ContentType = model.DefaultAttachmentContentType
	}

	uploaded := make([]model.UploadedFile, 0, len(files))
	for _, f := range files {
		result, err := s.save(ctx, f, target)
		if err != nil {
			s.rollback(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, *result)
	}

	s.metrics.RecordUploads(len(uploaded))
	return uploaded, nil
}

func (s *Service) save(ctx context.Context, f File, target Target) (*model.UploadedFile, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("アップロードファイルのオープンに失敗しました: %w", err)
	}
	defer rc.Close()

	storedName := storage.NewFileName(f.Name)
	url, err := s.store.Put(ctx, storedName, rc, f.Size, f.ContentType)
	if err != nil {
		return nil, fmt.Errorf("ファイルの保存に失敗しました: %w", err)
	}

	attachment, err := s.repo.Create(ctx, &model.Attachment{
		ContentType: target.ContentType,
		ContentID:   target.ContentID,
		FileURL:     url,
		FileName:    f.Name,
	})
	if err != nil {
		s.discard(ctx, storedName)
		return nil, fmt.Errorf("添付レコードの作成に失敗しました: %w", err)
	}

	slog.Info("ファイルをアップロードしました",
		slog.String("file_name", f.Name),
		slog.String("stored_name", storedName),
		slog.Int64("size", f.Size),
	)

	return &model.UploadedFile{
		Attachment: *attachment,
		URL:        url,
		Filename:   storedName,
	}, nil
}

// rollback は失敗したリクエストで保存済みのファイルと添付レコードを削除する。
// 削除の失敗はログに残し、元のエラーを優先する。
func (s *Service) rollback(ctx context.Context, uploaded []model.UploadedFile) {
	for _, u := range uploaded {
		if err := s.repo.Delete(context.WithoutCancel(ctx), u.ID); err != nil {
			slog.Warn("添付レコードの削除に失敗しました",
				slog.Int64("attachment_id", int64(u.ID)),
				slog.String("error", err.Error()),
			)
		}
		s.discard(ctx, u.Filename)
	}
}

// discard は保存済みのファイルを削除する。リクエストがキャンセルされていても実行する。
func (s *Service) discard(ctx context.Context, storedName string) {
	if err := s.store.Delete(context.WithoutCancel(ctx), storedName); err != nil {
		slog.Warn("保存済みファイルの削除に失敗しました",
			slog.String("stored_name", storedName),
			slog.String("error", err.Error()),
		)
	}
}
