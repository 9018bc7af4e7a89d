package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutOpenDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:5000/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	content := "%PDF-1.4 fake resume"
	url, err := store.Put(ctx, "resumes/1/100-cv.pdf", strings.NewReader(content), int64(len(content)), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/uploads/resumes/1/100-cv.pdf", url)

	_, err = os.Stat(filepath.Join(dir, "resumes", "1", "100-cv.pdf"))
	require.NoError(t, err)

	rc, err := store.Open(ctx, "resumes/1/100-cv.pdf")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	require.NoError(t, store.Delete(ctx, "resumes/1/100-cv.pdf"))
	require.NoError(t, store.Delete(ctx, "resumes/1/100-cv.pdf"))

	_, err = store.Open(ctx, "resumes/1/100-cv.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStore_KeysStayInsideDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "uploads")
	store, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)

	content := "x"
	_, err = store.Put(context.Background(), "../escape.txt", strings.NewReader(content), 1, "")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err)

	_, err = store.Put(context.Background(), "", strings.NewReader(content), 1, "")
	assert.Error(t, err)
}

func TestLocalStore_ShortWriteRemovesFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "a/b.txt", strings.NewReader("abc"), 10, "")
	assert.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "a", "b.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
