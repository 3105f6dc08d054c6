package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"intern_hub_backend/internal/config"
	"intern_hub_backend/internal/model"
	"intern_hub_backend/internal/util"
	"intern_hub_backend/pkg/logger"
	"intern_hub_backend/pkg/tracing"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/disintegration/imaging"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 定义通用存储接口
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

// LocalStorageProvider 本地存储实现，文件通过 /uploads 静态路由访问
type LocalStorageProvider struct {
	Config    *config.StorageConfig
	PublicURL string
}

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filepath.FromSlash(filename))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}

	return p.GetURL(filename), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, filepath.FromSlash(filename)))
}

func (p *LocalStorageProvider) GetURL(filename string) string {
	return strings.TrimRight(p.PublicURL, "/") + "/uploads/" + filename
}

// MinioStorageProvider MinIO存储实现
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, filename string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, filename, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(filename string) string {
	scheme := "http"
	if p.Config.MinioUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, p.Config.MinioEndpoint, p.Config.MinioBucket, filename)
}

// OSSStorageProvider 阿里云OSS存储实现
type OSSStorageProvider struct {
	Config *config.StorageConfig
	Client *oss.Client
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Config: cfg, Client: client}, nil
}

func (p *OSSStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return "", err
	}

	if err := bucket.PutObject(filename, reader, oss.ContentType(contentType)); err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *OSSStorageProvider) Delete(ctx context.Context, filename string) error {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return err
	}
	return bucket.DeleteObject(filename)
}

func (p *OSSStorageProvider) GetURL(filename string) string {
	return fmt.Sprintf("https://%s.%s/%s", p.Config.OSSBucket, p.Config.OSSEndpoint, filename)
}

// StorageService 存储服务
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	switch cfg.Storage.Type {
	case util.StorageMinio:
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err != nil {
			logger.Log.Warn("MinIO unavailable, falling back to local storage", zap.Error(err))
		} else {
			provider = p
		}
	case util.StorageOSS:
		p, err := NewOSSStorageProvider(&cfg.Storage)
		if err != nil {
			logger.Log.Warn("OSS unavailable, falling back to local storage", zap.Error(err))
		} else {
			provider = p
		}
	}

	if provider == nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage, PublicURL: cfg.Server.PublicURL}
	}

	return &StorageService{Provider: provider}
}

func objectName(folder, ext string) string {
	return path.Join(folder, time.Now().Format("20060102"), model.GenerateUUID()+ext)
}

// ObjectKey 从本存储返回的 URL 还原对象名，外部 URL 返回 false
func (s *StorageService) ObjectKey(url string) (string, bool) {
	prefix := s.Provider.GetURL("")
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

// DeleteByURL 删除 URL 对应的对象，不属于本存储的 URL 直接忽略
func (s *StorageService) DeleteByURL(ctx context.Context, url string) error {
	key, ok := s.ObjectKey(url)
	if !ok {
		return nil
	}
	return s.Provider.Delete(ctx, key)
}

// UploadImage 校验内容为图片后原样保存，返回可访问的 URL
func (s *StorageService) UploadImage(ctx context.Context, folder, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", util.NewValidationError("file", "is empty")
	}
	if len(data) > util.MaxImageSize {
		return "", util.NewValidationError("file", "exceeds 5MB")
	}
	mimeType, err := util.ValidateMimeType(bytes.NewReader(data), []string{util.MimeImage})
	if err != nil {
		return "", util.NewValidationError("file", "must be an image")
	}

	name := objectName(folder, util.ExtensionFor(mimeType, filename))
	return s.Provider.Upload(ctx, name, bytes.NewReader(data), int64(len(data)), mimeType)
}

// UploadAvatar 居中裁剪为 256x256 的 JPEG 后保存
func (s *StorageService) UploadAvatar(ctx context.Context, userID string, data []byte) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "StorageService.UploadAvatar")
	defer span.End()

	if len(data) > util.MaxImageSize {
		return "", util.NewValidationError("file", "exceeds 5MB")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", util.NewValidationError("file", "must be a JPEG, PNG or GIF image")
	}

	var buf bytes.Buffer
	if err := encodeAvatar(&buf, img); err != nil {
		return "", err
	}

	name := objectName(path.Join("avatars", userID), ".jpg")
	return s.Provider.Upload(ctx, name, &buf, int64(buf.Len()), "image/jpeg")
}

func encodeAvatar(w io.Writer, img image.Image) error {
	thumb := imaging.Fill(img, util.AvatarSize, util.AvatarSize, imaging.Center, imaging.Lanczos)
	return imaging.Encode(w, thumb, imaging.JPEG, imaging.JPEGQuality(85))
}
