package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/apperr"
	"github.com/noah-isme/ictak-go-api/internal/dto"
	"github.com/noah-isme/ictak-go-api/internal/models"
	"github.com/noah-isme/ictak-go-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = apperr.New(apperr.KindForbidden, "seeding disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = apperr.New(apperr.KindForbidden, "invalid seed token")
)

// SeedService loads the static project catalog.
type SeedService interface {
	SeedCatalog(ctx context.Context, token string, payload dto.SeedCatalogRequest) (dto.SeedCatalogResponse, error)
}

type seedService struct {
	projects  repository.ProjectRepository
	enabled   bool
	token     string
	sanitizer catalogSanitizer
	logger    zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(projects repository.ProjectRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		projects:  projects,
		enabled:   enabled,
		token:     token,
		sanitizer: newCatalogSanitizer(),
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedCatalog(ctx context.Context, token string, payload dto.SeedCatalogRequest) (dto.SeedCatalogResponse, error) {
	if !s.enabled {
		return dto.SeedCatalogResponse{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return dto.SeedCatalogResponse{}, ErrSeedUnauthorized
	}

	projects, err := s.normalizeProjects(payload.Projects)
	if err != nil {
		return dto.SeedCatalogResponse{}, err
	}
	references, err := normalizeReferences(payload.References)
	if err != nil {
		return dto.SeedCatalogResponse{}, err
	}

	var response dto.SeedCatalogResponse
	if response.Projects, err = s.projects.UpsertProjects(ctx, projects); err != nil {
		return dto.SeedCatalogResponse{}, internal(err, "seed operation failed")
	}
	if response.References, err = s.projects.UpsertReferences(ctx, references); err != nil {
		return dto.SeedCatalogResponse{}, internal(err, "seed operation failed")
	}

	s.logger.Info().Int64("projects", response.Projects).Int64("references", response.References).Msg("catalog seeded")
	return response, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}

func (s *seedService) normalizeProjects(items []models.Project) ([]models.Project, error) {
	for i := range items {
		items[i].ProjectID = strings.TrimSpace(items[i].ProjectID)
		items[i].Course = strings.TrimSpace(items[i].Course)
		items[i].Description = s.sanitizer.Clean(items[i].Description)
		items[i].Overview = s.sanitizer.Clean(items[i].Overview)
		if items[i].ProjectID == "" {
			return nil, apperr.Validation("every project needs a projectId")
		}
	}
	return items, nil
}

func normalizeReferences(items []models.ProjectReference) ([]models.ProjectReference, error) {
	for i := range items {
		items[i].ProjectID = strings.TrimSpace(items[i].ProjectID)
		if items[i].ProjectID == "" {
			return nil, apperr.Validation("every reference list needs a projectId")
		}
	}
	return items, nil
}
