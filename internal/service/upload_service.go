package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/ictak-go-api/internal/apperr"
	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/observability"
)

var (
	// ErrUploadTooLarge indicates the file exceeded the configured limit.
	ErrUploadTooLarge = apperr.Validation("File exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the detected type is not permitted.
	ErrUploadTypeNotAllowed = apperr.Validation("File type not allowed")
	// ErrUploadScanFailed indicates the archive could not be validated.
	ErrUploadScanFailed = apperr.Validation("File could not be validated")
)

// FileStorage abstracts external upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// FileIntake validates an uploaded submission file and turns it into a stored reference.
// Without storage the bytes are kept on the submission document itself.
type FileIntake struct {
	storage FileStorage
	maxSize int64
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewFileIntake constructs the intake. storage may be nil.
func NewFileIntake(storage FileStorage, maxSizeMB int, logger zerolog.Logger) *FileIntake {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &FileIntake{
		storage: storage,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		logger:  logger.With().Str("component", "file_intake").Logger(),
		tracer:  otel.Tracer("github.com/noah-isme/ictak-go-api/internal/service/upload"),
	}
}

// Accept reads and validates file. A nil file yields an empty reference.
func (s *FileIntake) Accept(ctx context.Context, file *multipart.FileHeader) (models.SubmissionFile, error) {
	if file == nil {
		return models.SubmissionFile{}, nil
	}

	ctx, span := s.tracer.Start(ctx, "upload.accept")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("upload.max_bytes", s.maxSize),
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)

	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	if file.Size > s.maxSize {
		return s.reject(span, "size", ErrUploadTooLarge)
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return models.SubmissionFile{}, internal(err, "Unable to read uploaded file")
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return models.SubmissionFile{}, internal(err, "Unable to read uploaded file")
	}
	if int64(buf.Len()) > s.maxSize {
		return s.reject(span, "size", ErrUploadTooLarge)
	}

	fileType := normalizeMime(mimetype.Detect(buf.Bytes()).String())
	span.SetAttributes(attribute.String("upload.detected_mime", fileType))
	if !isAllowedType(fileType) {
		return s.reject(span, "type", ErrUploadTypeNotAllowed)
	}

	if err := s.scan(buf.Bytes(), fileType); err != nil {
		return s.reject(span, "scan", err)
	}

	stored := models.SubmissionFile{
		Name: originalFileName(file.Filename),
		Type: fileType,
		Size: int64(buf.Len()),
	}

	if s.storage != nil {
		url, err := s.storage.Upload(ctx, sanitizeFileName(file.Filename), bytes.NewReader(buf.Bytes()))
		if err != nil {
			observability.UploadRejected().WithLabelValues("storage").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "storage failed")
			return models.SubmissionFile{}, internal(err, "Unable to store uploaded file")
		}
		stored.URL = url
	} else {
		stored.Data = buf.Bytes()
	}

	observability.UploadRequests().WithLabelValues(fileType).Inc()
	span.SetStatus(codes.Ok, "accepted")
	return stored, nil
}

func (s *FileIntake) reject(span trace.Span, reason string, err error) (models.SubmissionFile, error) {
	observability.UploadRejected().WithLabelValues(reason).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	s.logger.Debug().Str("reason", reason).Msg("upload rejected")
	return models.SubmissionFile{}, err
}

func (s *FileIntake) scan(payload []byte, mime string) error {
	if !strings.Contains(mime, "zip") {
		return nil
	}
	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return ErrUploadScanFailed
	}
	var totalUncompressed uint64
	for _, f := range reader.File {
		totalUncompressed += f.UncompressedSize64
		if totalUncompressed > uint64(s.maxSize*20) {
			return apperr.Wrap(errors.New("zip archive uncompressed size too large"), apperr.KindValidation, ErrUploadScanFailed.Message)
		}
	}
	return nil
}

func originalFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return base
}

func sanitizeFileName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ToLower(base)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = fmt.Sprintf("upload-%d", time.Now().Unix())
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = ".bin"
	}
	return base + ext
}

func normalizeMime(m string) string {
	lower := strings.ToLower(strings.TrimSpace(m))
	if idx := strings.Index(lower, ";"); idx >= 0 {
		lower = strings.TrimSpace(lower[:idx])
	}
	switch lower {
	case "application/x-zip-compressed":
		return "application/zip"
	default:
		return lower
	}
}

var allowedDocumentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/zip":    {},
	"text/plain":         {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.ms-powerpoint":                                             {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
}

func isAllowedType(m string) bool {
	if strings.HasPrefix(m, "image/") {
		return true
	}
	_, ok := allowedDocumentTypes[m]
	return ok
}
