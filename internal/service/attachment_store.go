package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrAttachmentOutsideRoot indicates a path that does not live under the
// attachments root; the store refuses to touch such files.
var ErrAttachmentOutsideRoot = errors.New("attachment path is outside the attachments root")

// CleanupResult aggregates a best-effort multi-file removal. Missing files
// are expected (the user may have moved them) and are not failures.
type CleanupResult struct {
	Removed int
	Missing int
	Failed  []string
}

// AttachmentStore abstracts where attachment files live. The production
// implementation copies files into per-record directories under a local
// root folder.
type AttachmentStore interface {
	Save(idNumber string, file *multipart.FileHeader) (string, error)
	Remove(path string) error
	RemoveAll(paths []string) CleanupResult
}

type diskAttachmentStore struct {
	root   string
	logger zerolog.Logger
}

// NewDiskAttachmentStore constructs an attachment store rooted at the given
// directory, creating it if absent.
func NewDiskAttachmentStore(root string, logger zerolog.Logger) (AttachmentStore, error) {
	if root == "" {
		return nil, fmt.Errorf("attachments root must not be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create attachments root: %w", err)
	}

	return &diskAttachmentStore{
		root:   root,
		logger: logger.With().Str("component", "attachment_store").Logger(),
	}, nil
}

// Save copies the uploaded file into the record's subdirectory. The stored
// name carries a timestamp prefix so repeated uploads of the same file never
// collide; a short random suffix covers two uploads in the same second.
func (s *diskAttachmentStore) Save(idNumber string, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is required")
	}

	dir := filepath.Join(s.root, "student_"+sanitizeIDNumber(idNumber))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create record directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), filepath.Base(file.Filename))
	dest := filepath.Join(dir, name)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(name)
		dest = filepath.Join(dir, strings.TrimSuffix(name, ext)+"_"+uuid.NewString()[:8]+ext)
	}

	source, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer source.Close()

	target, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create attachment file: %w", err)
	}
	defer target.Close()

	if _, err := io.Copy(target, source); err != nil {
		return "", fmt.Errorf("failed to copy attachment: %w", err)
	}

	s.logger.Info().Str("path", dest).Msg("attachment stored")

	return dest, nil
}

func (s *diskAttachmentStore) Remove(path string) error {
	if !s.within(path) {
		return ErrAttachmentOutsideRoot
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// RemoveAll deletes every listed file, collecting per-file outcomes instead
// of swallowing them; the caller logs one aggregated warning.
func (s *diskAttachmentStore) RemoveAll(paths []string) CleanupResult {
	var result CleanupResult
	for _, path := range paths {
		if !s.within(path) {
			result.Failed = append(result.Failed, path)
			continue
		}
		err := os.Remove(path)
		switch {
		case err == nil:
			result.Removed++
		case os.IsNotExist(err):
			result.Missing++
		default:
			result.Failed = append(result.Failed, path)
		}
	}

	return result
}

func (s *diskAttachmentStore) within(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func sanitizeIDNumber(idNumber string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.TrimSpace(idNumber))

	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "unknown"
	}

	return cleaned
}
