package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/discovernortheast/internal/content"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, G: 120, B: 40, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newUploadFixture(t *testing.T) (*UploadService, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	svc := NewUploadService(newTestStore(t), UploadLocation{Dir: dir, URLPath: "/uploads"}, 0)
	return svc, dir
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0
	}
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	return len(entries)
}

func TestUploadSaveAppendsPendingImage(t *testing.T) {
	svc, dir := newUploadFixture(t)
	data := pngBytes(t, 4, 3)

	img, err := svc.Save(context.Background(), UploadInput{
		CitySlug:    "guwahati",
		Caption:     "<b>Kamakhya</b> " + strings.Repeat("x", 200),
		Filename:    "temple.PNG",
		ContentType: "image/png",
		Size:        int64(len(data)),
		Content:     bytes.NewReader(data),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if img.Moderated {
		t.Fatalf("uploads must start unmoderated")
	}
	if img.Width != 4 || img.Height != 3 {
		t.Fatalf("expected decoded dimensions, got %dx%d", img.Width, img.Height)
	}
	if !strings.HasPrefix(img.URL, "/uploads/") || !strings.HasSuffix(img.URL, ".png") {
		t.Fatalf("unexpected url %q", img.URL)
	}
	if strings.Contains(img.Caption, "<b>") || len([]rune(img.Caption)) != content.MaxCaptionLen {
		t.Fatalf("caption not cleaned: %q", img.Caption)
	}

	if _, err := os.Stat(filepath.Join(dir, filepath.Base(img.URL))); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	gallery := content.Gallery(loadCity(t, svc.store, "guwahati"))
	if len(gallery) != 1 || gallery[0].ID != img.ID || gallery[0].Moderated {
		t.Fatalf("unexpected gallery %+v", gallery)
	}
}

func TestUploadSaveRejections(t *testing.T) {
	data := pngBytes(t, 2, 2)

	tests := []struct {
		name    string
		input   UploadInput
		wantErr error
		wantMsg string
	}{
		{
			name:    "no file",
			input:   UploadInput{CitySlug: "guwahati"},
			wantErr: ErrValidation,
			wantMsg: MsgNoFileUploaded,
		},
		{
			name:    "wrong extension",
			input:   UploadInput{CitySlug: "guwahati", Filename: "notes.txt", ContentType: "image/png", Content: bytes.NewReader(data)},
			wantErr: ErrValidation,
			wantMsg: MsgOnlyImagesAllowed,
		},
		{
			name:    "wrong mime type",
			input:   UploadInput{CitySlug: "guwahati", Filename: "a.png", ContentType: "application/pdf", Content: bytes.NewReader(data)},
			wantErr: ErrValidation,
			wantMsg: MsgOnlyImagesAllowed,
		},
		{
			name:    "too large",
			input:   UploadInput{CitySlug: "guwahati", Filename: "a.png", ContentType: "image/png", Size: DefaultMaxUploadBytes + 1, Content: bytes.NewReader(data)},
			wantErr: ErrValidation,
			wantMsg: MsgFileTooLarge,
		},
		{
			name:    "missing city slug",
			input:   UploadInput{Filename: "a.png", ContentType: "image/png", Content: bytes.NewReader(data)},
			wantErr: ErrValidation,
			wantMsg: MsgCitySlugRequired,
		},
		{
			name:    "not an image",
			input:   UploadInput{CitySlug: "guwahati", Filename: "a.png", ContentType: "image/png", Content: strings.NewReader("plain text")},
			wantErr: ErrValidation,
			wantMsg: MsgUnreadableImageFile,
		},
		{
			name:    "unknown city",
			input:   UploadInput{CitySlug: "atlantis", Filename: "a.png", ContentType: "image/png", Content: bytes.NewReader(data)},
			wantErr: ErrCityNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, dir := newUploadFixture(t)
			_, err := svc.Save(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, err.Error())
			}
			if n := countFiles(t, dir); n != 0 {
				t.Fatalf("rejected upload left %d files behind", n)
			}
		})
	}
}

func TestUploadStreamLongerThanLimit(t *testing.T) {
	svc, dir := newUploadFixture(t)
	svc.maxBytes = 16

	_, err := svc.Save(context.Background(), UploadInput{
		CitySlug:    "guwahati",
		Filename:    "a.png",
		ContentType: "image/png",
		Content:     bytes.NewReader(pngBytes(t, 8, 8)),
	})
	if err == nil || err.Error() != MsgFileTooLarge {
		t.Fatalf("expected file too large, got %v", err)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Fatalf("oversized upload left %d files", n)
	}
}

func TestSweepOrphans(t *testing.T) {
	svc, dir := newUploadFixture(t)
	data := pngBytes(t, 2, 2)

	img, err := svc.Save(context.Background(), UploadInput{
		CitySlug: "guwahati", Filename: "kept.png", ContentType: "image/png", Content: bytes.NewReader(data),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	old := time.Now().Add(-48 * time.Hour)
	orphan := filepath.Join(dir, "orphan.png")
	fresh := filepath.Join(dir, "fresh.png")
	for _, path := range []string{orphan, fresh} {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Chtimes(orphan, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	kept := filepath.Join(dir, filepath.Base(img.URL))
	if err := os.Chtimes(kept, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	removed, err := svc.SweepOrphans(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed file, got %d", removed)
	}
	if _, err := os.Stat(orphan); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("old orphan should be removed")
	}
	for _, path := range []string{fresh, kept} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s should be kept: %v", filepath.Base(path), err)
		}
	}
}

func TestSweepOrphansKeepsFilesServedUnderDefaultPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	svc := NewUploadService(newTestStore(t), UploadLocation{Dir: dir, URLPath: "/media"}, 0)
	data := pngBytes(t, 2, 2)

	img, err := svc.Save(context.Background(), UploadInput{
		CitySlug: "guwahati", Filename: "new.png", ContentType: "image/png", Content: bytes.NewReader(data),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(img.URL, "/media/") {
		t.Fatalf("expected upload under /media, got %s", img.URL)
	}

	// shillong's fixture gallery references /uploads/pending.jpg.
	legacy := filepath.Join(dir, "pending.jpg")
	stray := filepath.Join(dir, "stray.jpg")
	saved := filepath.Join(dir, filepath.Base(img.URL))
	for _, path := range []string{legacy, stray} {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	old := time.Now().Add(-48 * time.Hour)
	for _, path := range []string{legacy, stray, saved} {
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	removed, err := svc.SweepOrphans(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected only the stray file removed, got %d", removed)
	}
	if _, err := os.Stat(stray); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("stray file should be removed")
	}
	for _, path := range []string{legacy, saved} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s is referenced and must be kept: %v", filepath.Base(path), err)
		}
	}
}
