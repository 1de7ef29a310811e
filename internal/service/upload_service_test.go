package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
)

type storageStub struct {
	name     string
	uploaded bytes.Buffer
}

func (s *storageStub) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	s.name = name
	s.uploaded.Reset()
	if _, err := s.uploaded.ReadFrom(reader); err != nil {
		return "", err
	}
	return "https://cdn.example.com/" + name, nil
}

var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func TestFileIntakeNilFileIsEmpty(t *testing.T) {
	intake := NewFileIntake(nil, 1, testLogger())

	stored, err := intake.Accept(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, stored.IsEmpty())
}

func TestFileIntakeRejectsSize(t *testing.T) {
	intake := NewFileIntake(&storageStub{}, 1, testLogger())

	file := buildFileHeader(t, "file.pdf", append(append([]byte{}, pdfContent...), bytes.Repeat([]byte("a"), 2*1024*1024)...))
	_, err := intake.Accept(context.Background(), file)
	require.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestFileIntakeRejectsType(t *testing.T) {
	intake := NewFileIntake(&storageStub{}, 5, testLogger())

	file := buildFileHeader(t, "page.html", []byte("<!DOCTYPE html><html><body><script>alert(1)</script></body></html>"))
	_, err := intake.Accept(context.Background(), file)
	require.ErrorIs(t, err, ErrUploadTypeNotAllowed)
}

func TestFileIntakeStoresInline(t *testing.T) {
	intake := NewFileIntake(nil, 5, testLogger())

	file := buildFileHeader(t, "week1.pdf", pdfContent)
	stored, err := intake.Accept(context.Background(), file)
	require.NoError(t, err)
	require.Equal(t, "week1.pdf", stored.Name)
	require.Equal(t, "application/pdf", stored.Type)
	require.Equal(t, int64(len(pdfContent)), stored.Size)
	require.Equal(t, pdfContent, stored.Data)
	require.Empty(t, stored.URL)
}

func TestFileIntakeUploadsToStorage(t *testing.T) {
	storage := &storageStub{}
	intake := NewFileIntake(storage, 5, testLogger())

	file := buildFileHeader(t, "My Notes.txt", []byte("plain text notes"))
	stored, err := intake.Accept(context.Background(), file)
	require.NoError(t, err)
	require.Equal(t, "text/plain", stored.Type)
	require.Equal(t, "my-notes.txt", storage.name)
	require.Equal(t, "https://cdn.example.com/my-notes.txt", stored.URL)
	require.Nil(t, stored.Data)
	require.Equal(t, "plain text notes", storage.uploaded.String())
}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["files"]
	require.Len(t, files, 1)
	return files[0]
}
