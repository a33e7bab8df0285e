package upload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes uploaded media to a temporary directory for the duration of
// one request. Names are uuid-based so concurrent requests never collide and
// no locking is needed. Every saved file is the saving request's to remove.
type Store struct {
	dir      string
	maxBytes int64
}

var (
	ErrNoFile       = errors.New("no audio file uploaded")
	ErrTooLarge     = errors.New("audio file too large (max 25MB)")
	ErrInvalidMedia = errors.New("unsupported media type")
)

// Saved describes a file written by Save.
type Saved struct {
	Path string
	Size int64
	MIME string
}

func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Save copies one multipart part to disk, enforcing the media allow-list and
// the size ceiling. The original filename's extension is preserved since the
// transcription upstream keys format off it.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (*Saved, error) {
	if header == nil {
		return nil, ErrNoFile
	}
	if s.maxBytes > 0 && header.Size > s.maxBytes {
		return nil, ErrTooLarge
	}

	mime := header.Header.Get("Content-Type")
	if !allowedMedia(mime) {
		return nil, ErrInvalidMedia
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".webm"
	}
	path := filepath.Join(s.dir, uuid.NewString()+ext)

	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}

	written, err := io.Copy(out, file)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	return &Saved{Path: path, Size: written, MIME: mime}, nil
}

// Remove deletes a saved file. Cleanup failure is logged, never surfaced: the
// request's outcome was already decided by the time cleanup runs.
func (s *Store) Remove(saved *Saved) {
	if saved == nil {
		return
	}
	if err := os.Remove(saved.Path); err != nil && !os.IsNotExist(err) {
		slog.Error("failed to delete temp upload", "path", saved.Path, "error", err)
	}
}

// Dir returns the temporary upload directory.
func (s *Store) Dir() string { return s.dir }

func allowedMedia(mime string) bool {
	if mime == "" || mime == "application/octet-stream" {
		// Browsers are inconsistent about recorded-blob types.
		return true
	}
	return strings.HasPrefix(mime, "audio/") || strings.HasPrefix(mime, "video/")
}
