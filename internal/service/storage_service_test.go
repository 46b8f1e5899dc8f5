package service

import (
	"bytes"
	"context"
	"errors"
	"lingo_backend/internal/config"
	"lingo_backend/internal/model"
	"lingo_backend/internal/util"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newLocalStorageService(t *testing.T) (*StorageService, string) {
	t.Helper()
	dir := t.TempDir()
	provider := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: dir}}
	return &StorageService{Provider: provider, Logger: zap.NewNop()}, dir
}

func TestUploadChallengeMediaNamesObjectsByUUID(t *testing.T) {
	svc, dir := newLocalStorageService(t)

	data := bytes.NewReader(pngHeader)
	result, err := svc.UploadChallengeMedia(context.Background(), "man.png", data, int64(len(pngHeader)))
	if err != nil {
		t.Fatalf("UploadChallengeMedia: %v", err)
	}
	if result.MimeType != "image/png" {
		t.Fatalf("mime type = %q", result.MimeType)
	}

	const prefix = "/uploads/challenge-media/"
	if !strings.HasPrefix(result.URL, prefix) || !strings.HasSuffix(result.URL, ".png") {
		t.Fatalf("unexpected stored URL %q", result.URL)
	}

	// The object name is a UUID, not the caller's filename.
	base := strings.TrimSuffix(strings.TrimPrefix(result.URL, prefix), ".png")
	if _, err := uuid.Parse(base); err != nil {
		t.Fatalf("object name %q is not a UUID: %v", base, err)
	}

	stored := filepath.Join(dir, "challenge-media", base+".png")
	if _, err := os.Stat(stored); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
}

func TestUploadChallengeMediaRejectsUnknownTypes(t *testing.T) {
	svc, _ := newLocalStorageService(t)

	data := bytes.NewReader([]byte("just some text, not media"))
	_, err := svc.UploadChallengeMedia(context.Background(), "notes.txt", data, 25)
	if !errors.Is(err, util.ErrInvalidMediaType) {
		t.Fatalf("expected ErrInvalidMediaType, got %v", err)
	}
}

func TestAttachOptionMedia(t *testing.T) {
	svc, _ := newLocalStorageService(t)

	option := &model.ChallengeOption{}
	svc.AttachOptionMedia(option, &MediaUploadResult{URL: "/uploads/x.png", MimeType: "image/png"})
	if option.ImageSrc != "/uploads/x.png" || option.AudioSrc != "" {
		t.Fatalf("image not attached: %+v", option)
	}

	svc.AttachOptionMedia(option, &MediaUploadResult{URL: "/uploads/x.mp3", MimeType: "audio/mpeg"})
	if option.AudioSrc != "/uploads/x.mp3" {
		t.Fatalf("audio not attached: %+v", option)
	}
}
