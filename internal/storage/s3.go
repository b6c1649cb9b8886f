package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config はS3互換ストレージの接続設定。
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // MinIOなどS3互換サービスのエンドポイント。空の場合はAWS
	AccessKey string
	SecretKey string
	PublicURL string // オブジェクト公開URLのベース。空の場合は仮想ホスト形式のAWS URL
}

// objectPutter はS3クライアントのうちアップロードと削除に使う部分。
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3 はS3互換オブジェクトストレージにファイルを保存するStore。
type S3 struct {
	client    objectPutter
	bucket    string
	publicURL string
}

// NewS3 は設定からS3クライアントを構築してS3を生成する。
// アクセスキーが指定されていない場合はAWS SDKのデフォルト認証情報チェーンを使う。
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3WithClient(client, cfg), nil
}

func newS3WithClient(client objectPutter, cfg S3Config) *S3 {
	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		if cfg.Endpoint != "" {
			publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}
}

// Put はオブジェクトをアップロードし、公開URLを返す。
func (s *S3) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if !ValidName(name) {
		return "", ErrInvalidName
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(name),
		Body:          r,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", name, err)
	}
	return s.publicURL + "/" + name, nil
}

// Delete はオブジェクトを削除する。S3は存在しないキーの削除も成功として扱う。
func (s *S3) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", name, err)
	}
	return nil
}

var _ Store = (*S3)(nil)
