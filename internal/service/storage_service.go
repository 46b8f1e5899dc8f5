package service

import (
	"context"
	"fmt"
	"io"
	"lingo_backend/internal/config"
	"lingo_backend/internal/model"
	"lingo_backend/internal/util"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider is the common interface over local disk and MinIO.
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filename)
	dir := filepath.Dir(dst)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err = io.Copy(out, reader); err != nil {
		return "", err
	}

	return p.GetURL(filename), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, filename))
}

func (p *LocalStorageProvider) GetURL(filename string) string {
	return "/uploads/" + filename
}

type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
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
	return "/" + p.Config.MinioBucket + "/" + filename
}

// StorageService stores challenge option media (images and audio clips) and
// writes the resulting URL back onto the option.
type StorageService struct {
	Provider StorageProvider
	Logger   *zap.Logger
}

func NewStorageService(cfg *config.Config, logger *zap.Logger) *StorageService {
	var provider StorageProvider
	if cfg.Storage.Type == util.StorageMinio {
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err == nil {
			provider = p
		} else {
			logger.Warn("minio unavailable, using local storage", zap.Error(err))
		}
	}

	if provider == nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}

	return &StorageService{Provider: provider, Logger: logger}
}

// MediaUploadResult describes a stored media file.
type MediaUploadResult struct {
	URL      string  `json:"url"`
	MimeType string  `json:"mimeType"`
	Duration float64 `json:"duration,omitempty"`
}

// UploadChallengeMedia validates, stores, and optionally probes a media file
// for a challenge option. Audio files are probed for duration; a probe
// failure rejects the upload since a clip that ffprobe cannot read will not
// play in the quiz either.
func (s *StorageService) UploadChallengeMedia(ctx context.Context, filename string, reader io.ReadSeeker, size int64) (*MediaUploadResult, error) {
	mimeType, err := util.ValidateMimeType(reader, []string{util.MimeImage, util.MimeAudio, "application/ogg"})
	if err != nil {
		return nil, util.ErrInvalidMediaType
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	stored := fmt.Sprintf("challenge-media/%s%s", model.GenerateUUID(), filepath.Ext(filename))

	result := &MediaUploadResult{MimeType: mimeType}

	if util.IsAudio(mimeType) {
		info, err := s.probeAudio(reader, filepath.Ext(filename))
		if err != nil {
			s.Logger.Warn("audio probe failed", zap.String("filename", filename), zap.Error(err))
			return nil, util.ErrInvalidMediaType
		}
		result.Duration = info.Duration
		if _, err := reader.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	}

	url, err := s.Provider.Upload(ctx, stored, reader, size, mimeType)
	if err != nil {
		return nil, err
	}
	result.URL = url

	return result, nil
}

// probeAudio spools the clip to a temp file so ffprobe can seek in it.
func (s *StorageService) probeAudio(reader io.ReadSeeker, ext string) (*util.AudioInfo, error) {
	tmp, err := os.CreateTemp("", "lingo-audio-*"+ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, reader); err != nil {
		return nil, err
	}
	if err := tmp.Sync(); err != nil {
		return nil, err
	}

	return util.ProbeAudio(tmp.Name())
}

// AttachOptionMedia sets the stored media URL on a challenge option.
func (s *StorageService) AttachOptionMedia(option *model.ChallengeOption, result *MediaUploadResult) {
	if util.IsImage(result.MimeType) {
		option.ImageSrc = result.URL
	} else {
		option.AudioSrc = result.URL
	}
}
