package service

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestDiskAttachmentStoreSave(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskAttachmentStore(root, testLogger())
	require.NoError(t, err)

	header := makeFileHeader(t, "transcript.pdf", []byte("pdf-bytes"))
	stored, err := store.Save("S001", header)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(stored, filepath.Join(root, "student_S001")))
	require.True(t, strings.HasSuffix(stored, "_transcript.pdf"))

	content, err := os.ReadFile(stored)
	require.NoError(t, err)
	require.Equal(t, []byte("pdf-bytes"), content)
}

func TestDiskAttachmentStoreSaveSanitizesIDNumber(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskAttachmentStore(root, testLogger())
	require.NoError(t, err)

	header := makeFileHeader(t, "photo.png", []byte("png"))
	stored, err := store.Save("S/00 1", header)
	require.NoError(t, err)
	require.Contains(t, stored, "student_S-00-1")
}

func TestDiskAttachmentStoreRemoveOutsideRoot(t *testing.T) {
	store, err := NewDiskAttachmentStore(t.TempDir(), testLogger())
	require.NoError(t, err)

	outside := filepath.Join(t.TempDir(), "file.png")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	require.ErrorIs(t, store.Remove(outside), ErrAttachmentOutsideRoot)
	require.FileExists(t, outside)
}

func TestDiskAttachmentStoreRemoveMissingIsNoError(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskAttachmentStore(root, testLogger())
	require.NoError(t, err)

	require.NoError(t, store.Remove(filepath.Join(root, "student_S001", "gone.png")))
}

func TestDiskAttachmentStoreRemoveAll(t *testing.T) {
	root := t.TempDir()
	store, err := NewDiskAttachmentStore(root, testLogger())
	require.NoError(t, err)

	present := filepath.Join(root, "student_S001", "a.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(present), 0o755))
	require.NoError(t, os.WriteFile(present, []byte("a"), 0o644))

	missing := filepath.Join(root, "student_S001", "b.png")
	outside := filepath.Join(t.TempDir(), "c.png")

	result := store.RemoveAll([]string{present, missing, outside})
	require.Equal(t, 1, result.Removed)
	require.Equal(t, 1, result.Missing)
	require.Equal(t, []string{outside}, result.Failed)
}
