// Package cloudinary stores submission files in a Cloudinary folder.
package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Storage uploads submission files and returns their delivery URL.
type Storage struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary storage instance.
func New(cfg Config, logger zerolog.Logger) (*Storage, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("initialize cloudinary: %w", err)
	}

	return &Storage{
		client: cld,
		folder: strings.Trim(cfg.Folder, "/"),
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Upload sends the file and returns its secure URL. Images are stored as image assets;
// documents and archives are stored raw so they download unchanged.
func (s *Storage) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	resourceType := resourceTypeFor(name)
	params := uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID(name, resourceType, uuid.NewString()),
		ResourceType: resourceType,
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("upload %s: %s", name, result.Error.Message)
	}

	s.logger.Info().Str("public_id", result.PublicID).Str("resource_type", resourceType).Msg("submission file stored")
	return result.SecureURL, nil
}

var imageExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".bmp": {}, ".svg": {},
}

func resourceTypeFor(name string) string {
	if _, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return "image"
	}
	return "raw"
}

// publicID keeps the extension for raw assets, since Cloudinary serves raw files by
// their full public id.
func publicID(name, resourceType, suffix string) string {
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '-'
	}, strings.TrimSuffix(name, filepath.Ext(name)))
	base = strings.Trim(base, "-")
	if base == "" {
		base = "submission"
	}
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}

	id := base + "-" + suffix
	if resourceType == "raw" {
		id += ext
	}
	return id
}
